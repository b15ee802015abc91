// Package topics extracts latent topics from a corpus with LDA. It is a
// thin layer over the nlp library's count vectoriser and LDA transformer;
// the output is reduced to plain word weights so reporting needs no matrix
// types.
package topics

import (
	"errors"
	"fmt"
	"sort"

	"github.com/james-bowman/nlp"
)

// ErrNoDocuments indicates topic extraction was requested for an empty corpus.
var ErrNoDocuments = errors.New("no documents to model")

// Config controls LDA fitting. Explicit config objects keep runs reproducible
// given the same seed behavior from the underlying library.
type Config struct {
	Topics     int      // number of latent topics
	Iterations int      // sampling iterations
	TopWords   int      // words reported per topic
	StopWords  []string // excluded from the vocabulary before fitting
}

// DefaultConfig returns a small-model default suitable for book-sized corpora.
func DefaultConfig() Config {
	return Config{
		Topics:     5,
		Iterations: 60,
		TopWords:   8,
	}
}

// WordWeight is one vocabulary word's weight within a topic.
type WordWeight struct {
	Word   string  `json:"word"`
	Weight float64 `json:"weight"`
}

// Topic is one latent topic with its highest-weighted words.
type Topic struct {
	Index int          `json:"index"`
	Words []WordWeight `json:"words"`
}

// DocumentTopic records the dominant topic of one document.
type DocumentTopic struct {
	Document int     `json:"document"` // corpus position
	Topic    int     `json:"topic"`
	Weight   float64 `json:"weight"`
}

// Model is the reduced LDA output for a corpus.
type Model struct {
	Topics   []Topic         `json:"topics"`
	Dominant []DocumentTopic `json:"dominant"` // one per document, corpus order
}

// Extract fits an LDA model over the documents and reduces it to topics with
// their top words plus each document's dominant topic.
func Extract(docs []string, cfg Config) (*Model, error) {
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}
	if cfg.Topics <= 0 {
		cfg.Topics = DefaultConfig().Topics
	}
	if cfg.TopWords <= 0 {
		cfg.TopWords = DefaultConfig().TopWords
	}

	vectoriser := nlp.NewCountVectoriser(cfg.StopWords...)
	lda := nlp.NewLatentDirichletAllocation(cfg.Topics)
	if cfg.Iterations > 0 {
		lda.Iterations = cfg.Iterations
	}

	pipeline := nlp.NewPipeline(vectoriser, lda)
	docsOverTopics, err := pipeline.FitTransform(docs...)
	if err != nil {
		return nil, fmt.Errorf("Extract: fit LDA model: %w", err)
	}

	topicsOverWords := lda.Components()

	// Vocabulary maps word -> column; invert it for reporting.
	vocab := make([]string, len(vectoriser.Vocabulary))
	for word, col := range vectoriser.Vocabulary {
		vocab[col] = word
	}

	model := &Model{}

	topicRows, wordCols := topicsOverWords.Dims()
	for topic := 0; topic < topicRows; topic++ {
		weights := make([]WordWeight, wordCols)
		for word := 0; word < wordCols; word++ {
			weights[word] = WordWeight{
				Word:   vocab[word],
				Weight: topicsOverWords.At(topic, word),
			}
		}
		// Vocabulary column order breaks weight ties deterministically.
		sort.SliceStable(weights, func(i, j int) bool {
			return weights[i].Weight > weights[j].Weight
		})
		top := cfg.TopWords
		if top > len(weights) {
			top = len(weights)
		}
		model.Topics = append(model.Topics, Topic{Index: topic, Words: weights[:top]})
	}

	// docsOverTopics is topics x documents.
	_, docCols := docsOverTopics.Dims()
	for doc := 0; doc < docCols; doc++ {
		best := DocumentTopic{Document: doc}
		for topic := 0; topic < topicRows; topic++ {
			if w := docsOverTopics.At(topic, doc); w > best.Weight {
				best.Topic = topic
				best.Weight = w
			}
		}
		model.Dominant = append(model.Dominant, best)
	}

	return model, nil
}
