package bank

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/exam-deck/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(types.BankConfig{Dir: t.TempDir(), MaxResults: 20})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleSegmentation() types.Segmentation {
	return types.Segmentation{
		Title: "期中考试",
		Questions: []types.Question{
			{Ordinal: "1", Marker: "1.", Body: "下列词语中加点字的读音\n【答案】A"},
			{Ordinal: "2", Marker: "2、", Body: "默写古诗 100% 正确"},
			{Ordinal: "3", Marker: "3", Body: "【答案】C"},
		},
	}
}

func sampleRecords() []types.QARecord {
	return []types.QARecord{
		{ID: "1", Description: "阅读材料", QAPairs: []types.QAPair{
			{Question: "作者的观点", Answer: "热爱自然"},
			{Question: "修辞手法", Answer: "比喻"},
		}},
		{ID: "2", Description: "作文题"},
	}
}

// --- tests ---

func TestNewStoreRequiresDir(t *testing.T) {
	if _, err := NewStore(types.BankConfig{}); err == nil {
		t.Fatal("expected error for empty directory")
	}
}

func TestDocID(t *testing.T) {
	tests := map[string]string{
		"input.txt":          "input",
		"/tmp/exams/1.docx":  "1",
		"content.json":       "content",
		"noext":              "noext",
		"dir/archive.tar.gz": "archive.tar",
	}
	for in, want := range tests {
		if got := DocID(in); got != want {
			t.Errorf("DocID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIngestSegmentationAndSearch(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	n, err := store.IngestSegmentation(ctx, "midterm", "midterm.txt", sampleSegmentation())
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Fatalf("ingested %d rows, want 3", n)
	}

	all, err := store.Search(ctx, QueryOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d entries, want 3", len(all))
	}
	for i, e := range all {
		if e.Seq != i+1 {
			t.Errorf("entry %d has seq %d", i, e.Seq)
		}
		if e.DocTitle != "期中考试" {
			t.Errorf("entry %d title = %q", i, e.DocTitle)
		}
	}
	if all[1].Marker != "2、" {
		t.Errorf("marker = %q, want 2、", all[1].Marker)
	}

	hits, err := store.Search(ctx, QueryOptions{Query: "【答案】"})
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 2 || hits[0].Ordinal != "1" || hits[1].Ordinal != "3" {
		t.Errorf("answer search returned %+v", hits)
	}
}

func TestSearchEscapesWildcards(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	if _, err := store.IngestSegmentation(ctx, "d", "d.txt", sampleSegmentation()); err != nil {
		t.Fatal(err)
	}

	hits, err := store.Search(ctx, QueryOptions{Query: "100%"})
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].Ordinal != "2" {
		t.Errorf("got %+v, want question 2 only", hits)
	}

	hits, err = store.Search(ctx, QueryOptions{Query: "%"})
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 {
		t.Errorf("literal %% matched %d entries, want 1", len(hits))
	}
}

func TestSearchLimitAndDocFilter(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	if _, err := store.IngestSegmentation(ctx, "a", "a.txt", sampleSegmentation()); err != nil {
		t.Fatal(err)
	}
	if _, err := store.IngestRecords(ctx, "b", "b.json", sampleRecords()); err != nil {
		t.Fatal(err)
	}

	limited, err := store.Search(ctx, QueryOptions{Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 2 {
		t.Errorf("limit 2 returned %d", len(limited))
	}

	onlyB, err := store.Search(ctx, QueryOptions{DocID: "b"})
	if err != nil {
		t.Fatal(err)
	}
	if len(onlyB) != 3 {
		t.Fatalf("doc b has %d entries, want 3", len(onlyB))
	}
	for _, e := range onlyB {
		if e.DocID != "b" {
			t.Errorf("unexpected doc %q", e.DocID)
		}
	}
}

func TestIngestRecords(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	n, err := store.IngestRecords(ctx, "content", "content.json", sampleRecords())
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Fatalf("ingested %d rows, want 3 (two pairs plus one bare record)", n)
	}

	hits, err := store.Search(ctx, QueryOptions{Query: "比喻"})
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 {
		t.Fatalf("got %d hits, want 1", len(hits))
	}
	if hits[0].Question != "修辞手法" || hits[0].Body != "阅读材料" || hits[0].Ordinal != "1" {
		t.Errorf("unexpected entry %+v", hits[0])
	}

	bare, err := store.Search(ctx, QueryOptions{Query: "作文"})
	if err != nil {
		t.Fatal(err)
	}
	if len(bare) != 1 || bare[0].Question != "" || bare[0].Answer != "" {
		t.Errorf("bare record stored as %+v", bare)
	}
}

func TestReingestReplaces(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if _, err := store.IngestSegmentation(ctx, "exam", "exam.txt", sampleSegmentation()); err != nil {
		t.Fatal(err)
	}
	smaller := types.Segmentation{
		Title:     "修订版",
		Questions: []types.Question{{Ordinal: "1", Marker: "1.", Body: "only one"}},
	}
	if _, err := store.IngestSegmentation(ctx, "exam", "exam-v2.txt", smaller); err != nil {
		t.Fatal(err)
	}

	entries, err := store.Search(ctx, QueryOptions{DocID: "exam"})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Body != "only one" {
		t.Fatalf("re-ingest left %+v", entries)
	}

	docs, err := store.Documents(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 {
		t.Fatalf("got %d documents, want 1", len(docs))
	}
	d := docs[0]
	if d.Title != "修订版" || d.Source != "exam-v2.txt" || d.Questions != 1 || d.Kind != KindSegment {
		t.Errorf("document = %+v", d)
	}
	if d.IngestedAt.IsZero() {
		t.Error("ingested_at not recorded")
	}
}

func TestDocumentsAndDelete(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	if _, err := store.IngestSegmentation(ctx, "a", "a.txt", sampleSegmentation()); err != nil {
		t.Fatal(err)
	}
	if _, err := store.IngestRecords(ctx, "b", "b.json", sampleRecords()); err != nil {
		t.Fatal(err)
	}

	docs, err := store.Documents(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 || docs[0].ID != "a" || docs[1].ID != "b" || docs[1].Kind != KindQA {
		t.Fatalf("documents = %+v", docs)
	}

	existed, err := store.Delete(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	if !existed {
		t.Error("delete reported missing document")
	}
	entries, err := store.Search(ctx, QueryOptions{DocID: "a"})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("questions of deleted document remain: %+v", entries)
	}

	existed, err = store.Delete(ctx, "missing")
	if err != nil {
		t.Fatal(err)
	}
	if existed {
		t.Error("delete of unknown document reported success")
	}
}

func TestIngestEmptyDocID(t *testing.T) {
	store := testStore(t)
	if _, err := store.IngestSegmentation(context.Background(), "", "x.txt", sampleSegmentation()); err == nil {
		t.Fatal("expected error for empty document ID")
	}
}

func TestExportYAML(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	if _, err := store.IngestRecords(ctx, "content", "content.json", sampleRecords()); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := store.ExportYAML(ctx, QueryOptions{Limit: 1}, &buf); err != nil {
		t.Fatal(err)
	}

	var entries []Entry
	if err := yaml.Unmarshal(buf.Bytes(), &entries); err != nil {
		t.Fatalf("export is not valid YAML: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("exported %d entries, want 3 (limit is ignored)", len(entries))
	}
	if entries[0].Answer != "热爱自然" {
		t.Errorf("first answer = %q", entries[0].Answer)
	}
	if !strings.Contains(buf.String(), "doc_id: content") {
		t.Errorf("export missing doc_id:\n%s", buf.String())
	}
}

func TestExportJSON(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	var empty bytes.Buffer
	if err := store.ExportJSON(ctx, QueryOptions{}, &empty); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(empty.String()) != "[]" {
		t.Errorf("empty export = %q, want []", empty.String())
	}

	if _, err := store.IngestSegmentation(ctx, "midterm", "midterm.txt", sampleSegmentation()); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := store.ExportJSON(ctx, QueryOptions{Query: "默写"}, &buf); err != nil {
		t.Fatal(err)
	}

	var entries []Entry
	if err := json.Unmarshal(buf.Bytes(), &entries); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if len(entries) != 1 || entries[0].Ordinal != "2" {
		t.Errorf("filtered export = %+v", entries)
	}
}

func TestPath(t *testing.T) {
	store := testStore(t)
	if !strings.HasSuffix(store.Path(), "bank.db") {
		t.Errorf("path = %q", store.Path())
	}
}
