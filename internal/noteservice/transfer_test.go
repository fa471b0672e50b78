package noteservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/note"
	"github.com/starford/ansuz/internal/testutil"
)

func TestExportImportRoundTrip(t *testing.T) {
	src := testService(t)
	ctx := context.Background()

	base := time.Now().UTC()
	for i, title := range []string{"alpha", "beta", "gamma"} {
		tick := base.Add(time.Duration(i) * time.Second)
		src.now = func() time.Time { return tick }
		if _, err := src.Create(ctx, title, "content of "+title); err != nil {
			t.Fatal(err)
		}
	}

	var buf bytes.Buffer
	if err := src.Export(ctx, &buf); err != nil {
		t.Fatalf("Export: %v", err)
	}

	dst := testService(t)
	res, err := dst.Import(ctx, &buf)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.Created != 3 || res.Updated != 0 || res.Skipped != 0 {
		t.Errorf("result = %+v, want 3 created", res)
	}

	srcNotes, _ := src.List(ctx)
	dstNotes, _ := dst.List(ctx)
	if len(dstNotes) != len(srcNotes) {
		t.Fatalf("len = %d, want %d", len(dstNotes), len(srcNotes))
	}
	for i := range srcNotes {
		a, b := srcNotes[i], dstNotes[i]
		if a.ID != b.ID || a.Title != b.Title || a.Content != b.Content {
			t.Errorf("note %d mismatch: %+v vs %+v", i, a, b)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			t.Errorf("note %d created_at not preserved: %v vs %v", i, a.CreatedAt, b.CreatedAt)
		}
	}
}

func TestExportEmptyStoreIsEmptyArray(t *testing.T) {
	svc := testService(t)
	var buf bytes.Buffer
	if err := svc.Export(context.Background(), &buf); err != nil {
		t.Fatalf("Export: %v", err)
	}
	var arr []note.Note
	if err := json.Unmarshal(buf.Bytes(), &arr); err != nil {
		t.Fatalf("export is not a JSON array: %v", err)
	}
	if len(arr) != 0 {
		t.Errorf("len = %d, want 0", len(arr))
	}
}

func TestImportUpsertsExisting(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	orig, _ := svc.Create(ctx, "Original", "old content")

	in := []note.Note{{
		ID:      orig.ID,
		Title:   "Replaced",
		Content: "new content",
		// Incoming created_at disagrees with the stored one.
		CreatedAt: orig.CreatedAt.Add(-24 * time.Hour),
		UpdatedAt: orig.UpdatedAt.Add(-24 * time.Hour),
	}}
	data, _ := json.Marshal(in)

	res, err := svc.Import(ctx, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.Updated != 1 || res.Created != 0 {
		t.Errorf("result = %+v, want 1 updated", res)
	}

	got, _ := svc.Get(ctx, orig.ID)
	if got.Title != "Replaced" || got.Content != "new content" {
		t.Errorf("fields not replaced: %+v", got)
	}
	if !got.CreatedAt.Equal(orig.CreatedAt) {
		t.Errorf("stored created_at not preserved: %v vs %v", got.CreatedAt, orig.CreatedAt)
	}
	if !got.UpdatedAt.After(orig.UpdatedAt) && !got.UpdatedAt.Equal(orig.UpdatedAt) {
		t.Errorf("updated_at moved backwards: %v vs %v", got.UpdatedAt, orig.UpdatedAt)
	}

	notes, _ := svc.List(ctx)
	if len(notes) != 1 {
		t.Errorf("import created a duplicate: %d notes", len(notes))
	}
}

func TestImportNewIDKeepsTimestamps(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)
	in := []note.Note{{
		ID:        "imported-01",
		Title:     "Carried over",
		Content:   "from another machine",
		CreatedAt: created,
		UpdatedAt: updated,
	}}
	data, _ := json.Marshal(in)

	res, err := svc.Import(ctx, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.Created != 1 {
		t.Errorf("result = %+v, want 1 created", res)
	}

	got, err := svc.Get(ctx, "imported-01")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.CreatedAt.Equal(created) || !got.UpdatedAt.Equal(updated) {
		t.Errorf("timestamps not preserved: %v / %v", got.CreatedAt, got.UpdatedAt)
	}
}

func TestImportNormalizesTimestamps(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	in := []note.Note{
		{ID: "no-stamps", Title: "Zero times"},
		{ID: "backwards", Title: "Updated before created", CreatedAt: created, UpdatedAt: created.Add(-time.Hour)},
	}
	data, _ := json.Marshal(in)

	if _, err := svc.Import(ctx, bytes.NewReader(data)); err != nil {
		t.Fatalf("Import: %v", err)
	}

	a, _ := svc.Get(ctx, "no-stamps")
	if a.CreatedAt.IsZero() || a.UpdatedAt.Before(a.CreatedAt) {
		t.Errorf("zero stamps not filled: %v / %v", a.CreatedAt, a.UpdatedAt)
	}
	b, _ := svc.Get(ctx, "backwards")
	if b.UpdatedAt.Before(b.CreatedAt) {
		t.Errorf("updated_at still before created_at: %v / %v", b.CreatedAt, b.UpdatedAt)
	}
}

func TestImportSkipsInvalidRecords(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	in := []note.Note{
		{ID: "", Title: "No id"},
		{ID: "ok-1", Title: ""},
		{ID: "ok-2", Title: "   "},
		{ID: "../escape", Title: "Bad id"},
		{ID: "good", Title: "Fine", Content: "kept"},
	}
	data, _ := json.Marshal(in)

	res, err := svc.Import(ctx, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.Skipped != 4 || res.Created != 1 {
		t.Errorf("result = %+v, want 4 skipped 1 created", res)
	}
	if _, err := svc.Get(ctx, "good"); err != nil {
		t.Errorf("valid record not imported: %v", err)
	}
}

func TestImportRejectsMalformedSource(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	cases := []string{
		"not json at all",
		`{"id": "x", "title": "an object, not an array"}`,
		`[{"id": 42}]`,
	}
	for _, src := range cases {
		_, err := svc.Import(ctx, strings.NewReader(src))
		if !errors.Is(err, apperr.ErrInvalidImportFormat) {
			t.Errorf("source %q: err = %v, want ErrInvalidImportFormat", src, err)
		}
	}
}

func TestImportIsIdempotent(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	data := []byte(`[{"id": "rep", "title": "Repeat", "content": "same"}]`)

	first, err := svc.Import(ctx, bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Import(ctx, bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if first.Created != 1 || second.Created != 0 || second.Updated != 1 {
		t.Errorf("first = %+v, second = %+v", first, second)
	}
	notes, _ := svc.List(ctx)
	if len(notes) != 1 {
		t.Errorf("duplicate records after re-import: %d", len(notes))
	}
}
