package edinet

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const listingJSON = `{
  "metadata": {"title": "提出された書類を把握するためのAPI", "status": "200", "message": "OK", "resultset": {"count": 3}},
  "results": [
    {"seqNumber": 1, "docID": "S100TOYO", "edinetCode": "E02144", "secCode": "72030", "filerName": "トヨタ自動車株式会社",
     "ordinanceCode": "010", "formCode": "030000", "docTypeCode": "120", "periodStart": "2023-04-01", "periodEnd": "2024-03-31",
     "submitDateTime": "2024-06-18 15:00", "docDescription": "有価証券報告書－第120期(2023/04/01－2024/03/31)"},
    {"seqNumber": 2, "docID": "S100FUND", "edinetCode": "E12345", "secCode": null, "filerName": "Some Fund",
     "ordinanceCode": "030", "formCode": "07A000", "docTypeCode": "120", "periodStart": null, "periodEnd": null,
     "submitDateTime": "2024-06-18 09:15", "docDescription": "有価証券報告書（内国投資信託受益証券）"},
    {"seqNumber": 3, "docID": "S100QTR1", "edinetCode": "E02144", "secCode": "72030", "filerName": "トヨタ自動車株式会社",
     "ordinanceCode": "010", "formCode": "043000", "docTypeCode": "140", "periodStart": null, "periodEnd": null,
     "submitDateTime": "2024-06-18 16:30", "docDescription": "四半期報告書"}
  ]
}`

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClientWithOptions("test-key", Options{BaseURL: server.URL, RatePerSec: 1000, Burst: 10})
}

func TestGetDocumentList_NormalizesAndFilters(t *testing.T) {
	var gotQuery string
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		if r.URL.Path != "/documents.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(listingJSON))
	})

	date := time.Date(2024, 6, 18, 0, 0, 0, 0, time.UTC)
	filings, err := client.GetDocumentList(context.Background(), date, ListWithDocuments)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(filings) != 2 {
		t.Fatalf("expected 2 filings with securities codes, got %d", len(filings))
	}
	if filings[0].SecCode != "7203" {
		t.Errorf("expected secCode normalized to 7203, got %q", filings[0].SecCode)
	}
	if filings[0].PeriodEnd == nil || filings[0].PeriodEnd.Format("2006-01-02") != "2024-03-31" {
		t.Errorf("expected period end 2024-03-31, got %v", filings[0].PeriodEnd)
	}
	if filings[0].SubmittedAt.Format("2006-01-02 15:04") != "2024-06-18 15:00" {
		t.Errorf("unexpected submit time %v", filings[0].SubmittedAt)
	}
	if filings[1].PeriodEnd != nil {
		t.Errorf("expected nil period end for null, got %v", filings[1].PeriodEnd)
	}

	for _, want := range []string{"date=2024-06-18", "type=2", "Subscription-Key=test-key"} {
		if !bytes.Contains([]byte(gotQuery), []byte(want)) {
			t.Errorf("expected query to contain %q, got %q", want, gotQuery)
		}
	}
}

func TestGetDocumentList_SkipsUndecodableEntry(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
  "metadata": {"status": "200", "message": "OK"},
  "results": [
    {"docID": "S100GOOD", "edinetCode": "E02144", "secCode": "72030", "docTypeCode": "120", "submitDateTime": "2024-06-18 15:00"},
    {"docID": "S100BAD1", "edinetCode": "E01777", "secCode": "67580", "docTypeCode": "120", "submitDateTime": "18/06/2024 3pm"},
    {"docID": "S100GOOD2", "edinetCode": "E04425", "secCode": "99840", "docTypeCode": "120", "submitDateTime": "2024-06-18 16:00"}
  ]
}`))
	})

	filings, err := client.GetDocumentList(context.Background(), time.Now(), ListWithDocuments)
	if err != nil {
		t.Fatalf("expected a bad entry not to fail the listing, got %v", err)
	}
	if len(filings) != 2 {
		t.Fatalf("expected 2 decodable filings, got %d", len(filings))
	}
	for _, f := range filings {
		if f.DocID == "S100BAD1" {
			t.Error("expected S100BAD1 to be skipped")
		}
	}
}

func TestGetDocumentList_EmbeddedErrorStatus(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"metadata": {"status": "404", "message": "Not Found"}}`))
	})

	_, err := client.GetDocumentList(context.Background(), time.Now(), ListWithDocuments)
	if !errors.Is(err, ErrRegistryLogical) {
		t.Fatalf("expected ErrRegistryLogical, got %v", err)
	}
	if errors.Is(err, ErrRegistryUnavailable) {
		t.Error("logical error must not be reported as transport failure")
	}
}

func TestGetDocumentList_HTTPFailure(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.GetDocumentList(context.Background(), time.Now(), ListWithDocuments)
	if !errors.Is(err, ErrRegistryUnavailable) {
		t.Fatalf("expected ErrRegistryUnavailable, got %v", err)
	}
}

func TestDownloadDocument_JSONBodyIsFailure(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write([]byte(`{"metadata": {"status": "404", "message": "Not Found"}}`))
	})

	_, err := client.DownloadDocument(context.Background(), "S100MISS", DocumentXBRL)
	if !errors.Is(err, ErrDownloadFailed) {
		t.Fatalf("expected ErrDownloadFailed, got %v", err)
	}
}

func TestDownloadDocument_StatusFailure(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.DownloadDocument(context.Background(), "S100FAIL", DocumentPDF)
	if !errors.Is(err, ErrDownloadFailed) {
		t.Fatalf("expected ErrDownloadFailed, got %v", err)
	}
}

func TestDownloadDocument_OversizePayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(bytes.Repeat([]byte{'x'}, 64))
	}))
	t.Cleanup(server.Close)
	client := NewClientWithOptions("test-key", Options{BaseURL: server.URL, RatePerSec: 1000, Burst: 10, MaxDownloadBytes: 32})

	_, err := client.DownloadDocument(context.Background(), "S100HUGE", DocumentXBRL)
	if !errors.Is(err, ErrDownloadFailed) {
		t.Fatalf("expected ErrDownloadFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "exceeds 32 bytes") {
		t.Errorf("expected a size error, got %v", err)
	}

	exact := NewClientWithOptions("test-key", Options{BaseURL: server.URL, RatePerSec: 1000, Burst: 10, MaxDownloadBytes: 64})
	body, err := exact.DownloadDocument(context.Background(), "S100FITS", DocumentXBRL)
	if err != nil {
		t.Fatalf("expected a payload at the limit to download, got %v", err)
	}
	if len(body) != 64 {
		t.Errorf("expected 64 bytes, got %d", len(body))
	}
}

func TestFetchXBRL_ReturnsPublicDocFirst(t *testing.T) {
	archive := buildZip(t, map[string]string{
		"XBRL/AuditDoc/jpaud-aai-cc-001_E02144-000_2024-03-31_01_2024-06-18.xbrl":     "<audit/>",
		"XBRL/PublicDoc/jpcrp030000-asr-001_E02144-000_2024-03-31_01_2024-06-18.xbrl": "<public/>",
		"XBRL/PublicDoc/jpcrp030000-asr-001_E02144-000_2024-03-31_01_2024-06-18.xsd":  "<schema/>",
	})
	var gotPath, gotType string
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotType = r.URL.Query().Get("type")
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(archive)
	})

	docs, err := client.FetchXBRL(context.Background(), "S100TOYO")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if gotPath != "/documents/S100TOYO" || gotType != "1" {
		t.Errorf("unexpected request path=%s type=%s", gotPath, gotType)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 instance documents, got %d", len(docs))
	}
	if string(docs[0].Data) != "<public/>" {
		t.Errorf("expected PublicDoc instance first, got %s", docs[0].Name)
	}
}

func TestExtractXBRL_NoInstance(t *testing.T) {
	archive := buildZip(t, map[string]string{
		"XBRL/PublicDoc/0101010_honbun.htm": "<html/>",
	})
	_, err := ExtractXBRL(archive)
	if !errors.Is(err, ErrNoStructuredDocument) {
		t.Fatalf("expected ErrNoStructuredDocument, got %v", err)
	}
}

func TestExtractXBRL_NotAZip(t *testing.T) {
	_, err := ExtractXBRL([]byte("%PDF-1.7"))
	if !errors.Is(err, ErrDownloadFailed) {
		t.Fatalf("expected ErrDownloadFailed for unreadable archive, got %v", err)
	}
}

func TestNormalizeSecCode(t *testing.T) {
	cases := map[string]string{
		"72030":  "7203",
		"7203":   "7203",
		" 6758 ": "6758",
		"":       "",
	}
	for in, want := range cases {
		if got := NormalizeSecCode(in); got != want {
			t.Errorf("NormalizeSecCode(%q) = %q, want %q", in, got, want)
		}
	}
}

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("failed to create zip member: %v", err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("failed to write zip member: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return buf.Bytes()
}
