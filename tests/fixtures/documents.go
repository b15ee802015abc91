// Package fixtures provides reusable test data generators for integration tests.
// This package eliminates test data duplication and ensures consistent test content
// across different test suites.
package fixtures

import (
	"strings"
)

// DocumentOptions configures the generated document content.
type DocumentOptions struct {
	// Length is the approximate character count (target length, ±10% variance allowed)
	Length int

	// Language specifies the content language ("english" or "japanese")
	Language string

	// IncludeEmoji specifies whether to include emoji characters in the content
	IncludeEmoji bool
}

// GenerateDocument generates document content based on the provided options.
// The generated content is coherent English or Japanese text suitable for
// cleaning, tokenization, and classification testing.
//
// Example:
//
//	doc := GenerateDocument(DocumentOptions{
//	    Length: 2000,
//	    Language: "english",
//	    IncludeEmoji: false,
//	})
func GenerateDocument(opts DocumentOptions) string {
	if opts.Language == "japanese" {
		return generateJapaneseDocument(opts.Length, opts.IncludeEmoji)
	}
	return generateEnglishDocument(opts.Length, opts.IncludeEmoji)
}

// GenerateShortDocument generates a short document (~500 characters).
// This is useful for testing classification of brief content.
func GenerateShortDocument() string {
	return GenerateDocument(DocumentOptions{
		Length:       500,
		Language:     "english",
		IncludeEmoji: false,
	})
}

// GenerateMediumDocument generates a medium-length document (~2000 characters).
// This is useful for testing typical chapter-sized content.
func GenerateMediumDocument() string {
	return GenerateDocument(DocumentOptions{
		Length:       2000,
		Language:     "english",
		IncludeEmoji: false,
	})
}

// GenerateLongDocument generates a long document (~10000 characters).
// This is useful for testing truncation of extensive content.
func GenerateLongDocument() string {
	return GenerateDocument(DocumentOptions{
		Length:       10000,
		Language:     "english",
		IncludeEmoji: false,
	})
}

// GenerateDocumentWithEmoji generates a document that includes emoji characters.
// This is useful for testing Unicode character counting and handling.
func GenerateDocumentWithEmoji() string {
	return GenerateDocument(DocumentOptions{
		Length:       2000,
		Language:     "english",
		IncludeEmoji: true,
	})
}

// WhaleSample returns a fixed fifty-word passage used across test suites.
// The token counts are known by construction: "whale" occurs twice, "whale's"
// once, and "the" five times out of exactly fifty tokens.
func WhaleSample() string {
	return "It is the whale that haunts my dreams and the whale's shadow " +
		"follows me across the deep cold water. I saw the white whale again " +
		"at dawn, vast and silent, while every sailor aboard whispered old " +
		"warnings about fate, storms, and the sea's long memory of wrecked " +
		"and broken ships."
}

// FramedBook returns a small book with Project Gutenberg style header and
// footer framing and three numbered chapters. Useful for exercising frame
// stripping and chapter splitting without a network fetch.
func FramedBook() string {
	return `The Project Gutenberg eBook of The Gray Harbor

This ebook is for the use of anyone anywhere in the United States.

*** START OF THE PROJECT GUTENBERG EBOOK THE GRAY HARBOR ***

CHAPTER I. The Quay

The harbor lay gray and still under the morning fog, and the boats swung
slowly at their moorings while the gulls called from the breakwater.

CHAPTER II. The Crossing

They put out at noon with the tide behind them, and the old pilot watched
the water change color over the sandbar as he had for forty years.

CHAPTER III. The Return

By evening the fog came back, thicker than before, and the lamps along
the quay made small yellow circles that reached only a few feet out.

*** END OF THE PROJECT GUTENBERG EBOOK THE GRAY HARBOR ***

Updated editions will replace the previous one.`
}

// generateEnglishDocument generates coherent English document content.
func generateEnglishDocument(targetLength int, includeEmoji bool) string {
	baseSentences := []string{
		"The ship ran before the wind with every sail drawing full.",
		"Gray water rolled away to the horizon on every side of the hull.",
		"The old sailor watched the weather glass and said nothing for an hour.",
		"Far to the south a line of squalls darkened the edge of the sea.",
		"The harbor lights dropped astern one by one as the land fell away.",
		"Salt crusted the rigging and dried white along the rails by noon.",
		"A school of porpoises kept pace with the bow for most of the morning.",
		"The captain marked the chart and set the course two points to windward.",
		"Below deck the lamps swung slowly with the long rhythm of the swell.",
		"The lookout called from the masthead and every hand came up at once.",
		"Rain swept the deck in long cold sheets through the middle watch.",
		"By dawn the storm had passed and the sea lay flat as poured metal.",
		"The crew mended canvas and spliced line through the quiet afternoon.",
		"Landfall came on the fortieth day, a thin blue smudge off the port bow.",
		"The anchor went down in ten fathoms and the voyage was over.",
	}

	emojiSentences := []string{
		"The sea stretched bright to the horizon 🌊⛵",
		"Stars wheeled over the masthead all night ✨🌙",
		"The catch came up heavy in the nets 🐟⚓",
		"Wind filled the sails at first light 🌅💨",
		"The old charts still showed the safe channel 🗺️🧭",
	}

	return buildFromSentences(baseSentences, emojiSentences, targetLength, includeEmoji)
}

// generateJapaneseDocument generates coherent Japanese document content.
func generateJapaneseDocument(targetLength int, includeEmoji bool) string {
	// Base sentences for Japanese content
	baseSentences := []string{
		"語彙の分布を調べることで、文章の特徴を定量的に把握することができます。",
		"単語の出現頻度は、テキストの主題を推定するための基本的な手がかりです。",
		"章ごとの相対頻度を比較すると、物語の展開に伴う語彙の変化が見えてきます。",
		"固有名詞の出現位置は、登場人物の活動範囲を示す指標になります。",
		"テキストの前処理では、句読点や数字の扱いを明確に定義する必要があります。",
		"トークン化の規則が変わると、集計結果も大きく変わることがあります。",
		"ストップワードの除去は、内容語の分布を際立たせるための一般的な手法です。",
		"語幹処理によって、活用形の異なる単語を同一の見出しにまとめられます。",
		"共起関係の分析は、単語同士の意味的なつながりを明らかにします。",
		"文書集合全体の統計と個々の文書の統計は、区別して扱う必要があります。",
		"分散分析により、特定の語が文書のどこに集中しているかが分かります。",
		"大規模なコーパスの処理には、効率的なデータ構造の選択が欠かせません。",
		"言語判定は、多言語の文書集合を扱う際の最初の関門です。",
		"出現順序を保持した集計は、再現性のある分析の基礎になります。",
		"頻度表の上位語は、その文書の主題を端的に表すことが多いです。",
	}

	emojiSentences := []string{
		"テキスト分析は新しい発見をもたらします 📚✨",
		"データに基づく読解が広がっています 📊📖",
		"語彙の世界は奥深いものです 🔍💡",
		"コーパス研究が進化しています 📝🌐",
		"言葉の統計は物語を語ります 📈🖋️",
	}

	return buildFromSentences(baseSentences, emojiSentences, targetLength, includeEmoji)
}

// buildFromSentences assembles sentences until the target length is reached,
// allowing ±10% variance around the target.
func buildFromSentences(baseSentences, emojiSentences []string, targetLength int, includeEmoji bool) string {
	var builder strings.Builder
	currentLength := 0
	sentenceIndex := 0
	emojiIndex := 0

	for {
		var sentence string
		if includeEmoji && currentLength%(targetLength/5) < 100 && emojiIndex < len(emojiSentences) {
			sentence = emojiSentences[emojiIndex]
			emojiIndex++
		} else {
			sentence = baseSentences[sentenceIndex%len(baseSentences)]
			sentenceIndex++
		}

		// Calculate the length if we add this sentence
		sentenceLength := len([]rune(sentence))
		if currentLength > 0 {
			sentenceLength++ // Account for space
		}
		potentialLength := currentLength + sentenceLength

		// If we've reached or exceeded the minimum target (90%), check if we should stop
		if currentLength >= int(float64(targetLength)*0.9) {
			// Stop if adding this sentence would exceed 110% of target
			if potentialLength > int(float64(targetLength)*1.1) {
				break
			}
		}

		// Add spacing before sentence (except for the first one)
		if currentLength > 0 {
			builder.WriteString(" ")
		}

		builder.WriteString(sentence)
		currentLength = len([]rune(builder.String()))

		// Stop if we've reached the target
		if currentLength >= targetLength {
			break
		}
	}

	return builder.String()
}
