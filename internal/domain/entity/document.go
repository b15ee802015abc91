package entity

import "time"

// Document represents one unit of input text within a corpus, typically a
// chapter, feed entry or CSV row. Seq is the zero-based position within the
// corpus and is stable across reads.
type Document struct {
	ID            int64
	CorpusID      int64
	Seq           int
	Title         string
	Text          string // cleaned text, analysis input
	RawText       string // text as loaded, before cleaning
	TokenCount    int
	Valid         bool   // false when cleaning excluded the document
	InvalidReason string // populated only when Valid is false
	Language      string
	CreatedAt     time.Time
}

// MarkInvalid flags the document as excluded from downstream analysis,
// recording the reason. Invalid documents keep their Seq so corpus ordering
// stays intact.
func (d *Document) MarkInvalid(reason string) {
	d.Valid = false
	d.InvalidReason = reason
	d.TokenCount = 0
}
