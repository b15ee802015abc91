package repository

import "context"

// TermCount is one persisted token count of a single document. FirstPos is
// the zero-based position of the token's first occurrence counted from the
// start of the whole corpus (document offset plus in-document index), kept so
// rankings can break count ties by first appearance. Within one document the
// offset is constant, so document-level and corpus-level ordering agree.
type TermCount struct {
	Token    string
	Count    int
	FirstPos int
}

// CorpusTermCount aggregates a token across a whole corpus. FirstPos is the
// minimum FirstPos over all documents, the token's first appearance in a
// straight read-through of the corpus.
type CorpusTermCount struct {
	Token    string
	Count    int
	FirstPos int
}

// DocumentTermCount is a token count attributed to one document, used to
// assemble per-chapter matrices.
type DocumentTermCount struct {
	DocumentID int64
	Seq        int
	Token      string
	Count      int
}

// DocumentTotal is the token total of one document.
type DocumentTotal struct {
	DocumentID int64
	Seq        int
	Total      int
}

type TermCountRepository interface {
	// ReplaceForDocument atomically replaces the full token count row set of
	// a document. Running it inside one transaction keeps readers from ever
	// seeing a half-written table.
	ReplaceForDocument(ctx context.Context, documentID int64, counts []TermCount) error
	// DocumentRow retrieves all token counts of one document ordered by
	// count DESC, first_pos ASC.
	DocumentRow(ctx context.Context, documentID int64) ([]TermCount, error)
	// CorpusTable aggregates token counts across a corpus ordered by
	// count DESC, first_pos ASC.
	CorpusTable(ctx context.Context, corpusID int64) ([]CorpusTermCount, error)
	// TopN returns the corpus's most frequent tokens. Ties on count resolve
	// by earliest first occurrence.
	TopN(ctx context.Context, corpusID int64, limit int) ([]CorpusTermCount, error)
	// TokenCounts retrieves per-document counts of the given tokens ordered
	// by seq ASC. Documents where a token never occurs produce no row;
	// callers treat the absence as a count of zero.
	TokenCounts(ctx context.Context, corpusID int64, tokens []string) ([]DocumentTermCount, error)
	// DocumentTotals retrieves every document's token total ordered by
	// seq ASC, including zero totals for empty documents.
	DocumentTotals(ctx context.Context, corpusID int64) ([]DocumentTotal, error)
	// DeleteByDocumentID removes all counts of a document. Returns the
	// number of deleted rows; 0 is not an error.
	DeleteByDocumentID(ctx context.Context, documentID int64) (int64, error)
}
