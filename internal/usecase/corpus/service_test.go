package corpus_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"textmill/internal/common/pagination"
	"textmill/internal/domain/entity"
	corpusUC "textmill/internal/usecase/corpus"
)

/*────────────────────  インメモリスタブ  ────────────────────*/

// very-light CorpusRepository stub
type stubRepo struct {
	data   map[int64]*entity.Corpus
	nextID int64
	err    error // 強制エラー注入用
}

func newStub() *stubRepo {
	return &stubRepo{data: map[int64]*entity.Corpus{}, nextID: 1}
}

/* --- repository.CorpusRepository を満たす --- */

func (s *stubRepo) Get(_ context.Context, id int64) (*entity.Corpus, error) {
	return s.data[id], s.err
}
func (s *stubRepo) List(_ context.Context) ([]*entity.Corpus, error) {
	var out []*entity.Corpus
	for _, v := range s.data {
		out = append(out, v)
	}
	return out, s.err
}
func (s *stubRepo) ListPaginated(_ context.Context, offset, limit int) ([]*entity.Corpus, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []*entity.Corpus
	for _, v := range s.data {
		out = append(out, v)
	}
	if offset >= len(out) {
		return []*entity.Corpus{}, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}
func (s *stubRepo) Count(_ context.Context) (int64, error) {
	return int64(len(s.data)), s.err
}
func (s *stubRepo) Search(_ context.Context, _ string) ([]*entity.Corpus, error) {
	return nil, s.err // テストでは未使用
}
func (s *stubRepo) Create(_ context.Context, c *entity.Corpus) error {
	if s.err != nil {
		return s.err
	}
	c.ID = s.nextID
	s.nextID++
	s.data[c.ID] = c
	return nil
}
func (s *stubRepo) Update(_ context.Context, c *entity.Corpus) error {
	if s.err != nil {
		return s.err
	}
	s.data[c.ID] = c
	return nil
}
func (s *stubRepo) Delete(_ context.Context, id int64) error {
	if s.err != nil {
		return s.err
	}
	delete(s.data, id)
	return nil
}
func (s *stubRepo) ExistsByURL(_ context.Context, url string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	for _, v := range s.data {
		if v.SourceURL == url {
			return true, nil
		}
	}
	return false, nil
}
func (s *stubRepo) TouchIngestedAt(_ context.Context, id int64, t time.Time, documentCount int) error {
	if c, ok := s.data[id]; ok {
		c.LastIngestedAt = &t
		c.DocumentCount = documentCount
	}
	return s.err
}

/*────────────────────  テストケース  ────────────────────*/

/* 1. Create: 必須フィールドバリデーション */
func TestService_Create_validation(t *testing.T) {
	svc := corpusUC.Service{Repo: newStub()}

	err := svc.Create(context.Background(), corpusUC.CreateInput{})
	if err == nil {
		t.Fatalf("want validation error, got nil")
	}
}

/* 2. Create → データが保存されるか */
func TestService_Create_success(t *testing.T) {
	stub := newStub()
	svc := corpusUC.Service{Repo: stub}

	in := corpusUC.CreateInput{
		Title:     "Moby Dick",
		SourceURL: "https://www.gutenberg.org/files/2701/2701-0.txt",
		Kind:      "book",
	}
	if err := svc.Create(context.Background(), in); err != nil {
		t.Fatalf("Create err=%v", err)
	}

	if len(stub.data) != 1 {
		t.Fatalf("stored corpora = %d, want 1", len(stub.data))
	}
	for _, c := range stub.data {
		if c.Title != "Moby Dick" || c.Kind != "book" {
			t.Errorf("stored corpus = %+v", c)
		}
	}
}

/* 3. Create: ローカルパスはURL検証をスキップ */
func TestService_Create_localPath(t *testing.T) {
	stub := newStub()
	svc := corpusUC.Service{Repo: stub}

	in := corpusUC.CreateInput{
		Title:     "Local corpus",
		SourceURL: "/var/data/corpus.txt",
		Kind:      "file",
	}
	if err := svc.Create(context.Background(), in); err != nil {
		t.Fatalf("Create err=%v", err)
	}
}

/* 4. Create: 不正なスキームを拒否 */
func TestService_Create_invalidScheme(t *testing.T) {
	svc := corpusUC.Service{Repo: newStub()}

	in := corpusUC.CreateInput{
		Title:     "Bad",
		SourceURL: "ftp://example.com/corpus.txt",
		Kind:      "book",
	}
	if err := svc.Create(context.Background(), in); err == nil {
		t.Fatal("want URL validation error, got nil")
	}
}

/* 5. Create: 不正なKindを拒否 */
func TestService_Create_invalidKind(t *testing.T) {
	svc := corpusUC.Service{Repo: newStub()}

	in := corpusUC.CreateInput{
		Title:     "Bad kind",
		SourceURL: "https://example.com/corpus.txt",
		Kind:      "spreadsheet",
	}
	if err := svc.Create(context.Background(), in); err == nil {
		t.Fatal("want kind validation error, got nil")
	}
}

/* 6. Create: CSVはtext_column必須 */
func TestService_Create_csvRequiresTextColumn(t *testing.T) {
	svc := corpusUC.Service{Repo: newStub()}

	in := corpusUC.CreateInput{
		Title:     "Tweets",
		SourceURL: "https://example.com/tweets.csv",
		Kind:      "csv",
	}
	if err := svc.Create(context.Background(), in); err == nil {
		t.Fatal("want text_column validation error, got nil")
	}

	in.SourceConfig = &entity.SourceConfig{TextColumn: "text", SkipHeader: true}
	if err := svc.Create(context.Background(), in); err != nil {
		t.Fatalf("Create with text_column err=%v", err)
	}
}

/* 7. Create: 重複ソースURLを拒否 */
func TestService_Create_duplicate(t *testing.T) {
	stub := newStub()
	svc := corpusUC.Service{Repo: stub}

	in := corpusUC.CreateInput{
		Title:     "Moby Dick",
		SourceURL: "https://www.gutenberg.org/files/2701/2701-0.txt",
		Kind:      "book",
	}
	if err := svc.Create(context.Background(), in); err != nil {
		t.Fatalf("first Create err=%v", err)
	}

	err := svc.Create(context.Background(), in)
	if !errors.Is(err, corpusUC.ErrDuplicateCorpus) {
		t.Fatalf("want ErrDuplicateCorpus, got %v", err)
	}
}

/* 8. Get: 存在しないIDはErrCorpusNotFound */
func TestService_Get_notFound(t *testing.T) {
	svc := corpusUC.Service{Repo: newStub()}

	_, err := svc.Get(context.Background(), 42)
	if !errors.Is(err, corpusUC.ErrCorpusNotFound) {
		t.Fatalf("want ErrCorpusNotFound, got %v", err)
	}
}

/* 9. Get: 不正なID */
func TestService_Get_invalidID(t *testing.T) {
	svc := corpusUC.Service{Repo: newStub()}

	if _, err := svc.Get(context.Background(), 0); err == nil {
		t.Fatal("want validation error, got nil")
	}
}

/* 10. Update: 部分更新 */
func TestService_Update_partial(t *testing.T) {
	stub := newStub()
	svc := corpusUC.Service{Repo: stub}

	if err := svc.Create(context.Background(), corpusUC.CreateInput{
		Title:     "Old title",
		SourceURL: "https://example.com/a.txt",
		Kind:      "book",
	}); err != nil {
		t.Fatalf("Create err=%v", err)
	}

	if err := svc.Update(context.Background(), corpusUC.UpdateInput{
		ID:    1,
		Title: "New title",
	}); err != nil {
		t.Fatalf("Update err=%v", err)
	}

	got := stub.data[1]
	if got.Title != "New title" {
		t.Errorf("Title = %q, want %q", got.Title, "New title")
	}
	// 未指定フィールドは維持される
	if got.SourceURL != "https://example.com/a.txt" || got.Kind != "book" {
		t.Errorf("untouched fields changed: %+v", got)
	}
}

/* 11. Update: 存在しないコーパス */
func TestService_Update_notFound(t *testing.T) {
	svc := corpusUC.Service{Repo: newStub()}

	err := svc.Update(context.Background(), corpusUC.UpdateInput{ID: 99, Title: "x"})
	if !errors.Is(err, corpusUC.ErrCorpusNotFound) {
		t.Fatalf("want ErrCorpusNotFound, got %v", err)
	}
}

/* 12. Delete: 正常系と不正ID */
func TestService_Delete(t *testing.T) {
	stub := newStub()
	svc := corpusUC.Service{Repo: stub}

	if err := svc.Create(context.Background(), corpusUC.CreateInput{
		Title:     "To delete",
		SourceURL: "https://example.com/b.txt",
		Kind:      "book",
	}); err != nil {
		t.Fatalf("Create err=%v", err)
	}

	if err := svc.Delete(context.Background(), 1); err != nil {
		t.Fatalf("Delete err=%v", err)
	}
	if len(stub.data) != 0 {
		t.Errorf("corpus not deleted")
	}

	if err := svc.Delete(context.Background(), -1); err == nil {
		t.Fatal("want validation error for negative ID")
	}
}

/* 13. ListPaginated: メタデータ計算 */
func TestService_ListPaginated(t *testing.T) {
	stub := newStub()
	svc := corpusUC.Service{Repo: stub}

	for i := 0; i < 5; i++ {
		if err := svc.Create(context.Background(), corpusUC.CreateInput{
			Title:     "Corpus",
			SourceURL: "https://example.com/" + string(rune('a'+i)) + ".txt",
			Kind:      "book",
		}); err != nil {
			t.Fatalf("Create err=%v", err)
		}
	}

	res, err := svc.ListPaginated(context.Background(), pagination.Params{Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("ListPaginated err=%v", err)
	}

	if res.Pagination.Total != 5 {
		t.Errorf("Total = %d, want 5", res.Pagination.Total)
	}
	if res.Pagination.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", res.Pagination.TotalPages)
	}
	if len(res.Data) != 2 {
		t.Errorf("page size = %d, want 2", len(res.Data))
	}
}

/* 14. リポジトリ障害の伝搬 */
func TestService_List_repoError(t *testing.T) {
	stub := newStub()
	stub.err = errors.New("db down")
	svc := corpusUC.Service{Repo: stub}

	if _, err := svc.List(context.Background()); err == nil {
		t.Fatal("want repository error, got nil")
	}
}
