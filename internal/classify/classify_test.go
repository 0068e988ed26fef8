package classify

import (
	"errors"
	"image/color"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"
)

// stubScorer returns a fixed prediction (or error) regardless of input.
type stubScorer struct {
	pred Prediction
	err  error
}

func (s *stubScorer) Score(io.Reader) (Prediction, error) {
	return s.pred, s.err
}

// writeTestImage renders a landscape JPEG so aspect-ratio assertions
// have something non-square to chew on.
func writeTestImage(t *testing.T, dir string, width, height int) string {
	t.Helper()
	img := imaging.New(width, height, color.NRGBA{R: 120, G: 160, B: 90, A: 255})
	path := filepath.Join(dir, "source.jpg")
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("save test image: %v", err)
	}
	return path
}

func TestCategoryClassifier_PositiveWritesThumbnail(t *testing.T) {
	dir := t.TempDir()
	imagePath := writeTestImage(t, dir, 640, 360)
	thumbPath := filepath.Join(dir, "thumb.jpg")

	// Index 13 (junco) is in the default target set.
	c := NewCategoryClassifier(&stubScorer{pred: Prediction{Index: 13, Label: "junco"}}, nil, 224)

	detected, evidence, err := c.Classify(imagePath, thumbPath)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if !detected {
		t.Fatal("expected positive decision for a target category")
	}
	if evidence != thumbPath {
		t.Fatalf("evidence path = %q, want %q", evidence, thumbPath)
	}

	thumb, err := imaging.Open(thumbPath)
	if err != nil {
		t.Fatalf("open thumbnail: %v", err)
	}
	b := thumb.Bounds()
	if b.Dx() != 224 {
		t.Errorf("thumbnail longer dimension = %d, want 224", b.Dx())
	}
	// 640x360 scaled to 224 wide is 126 high.
	if b.Dy() != 126 {
		t.Errorf("thumbnail height = %d, want 126 (aspect preserved)", b.Dy())
	}
}

func TestCategoryClassifier_TallImageScalesLongerSide(t *testing.T) {
	dir := t.TempDir()
	imagePath := writeTestImage(t, dir, 300, 600)
	thumbPath := filepath.Join(dir, "thumb.jpg")

	c := NewCategoryClassifier(&stubScorer{pred: Prediction{Index: 448}}, nil, 224)

	detected, _, err := c.Classify(imagePath, thumbPath)
	if err != nil || !detected {
		t.Fatalf("Classify = (%v, %v), want positive", detected, err)
	}

	thumb, err := imaging.Open(thumbPath)
	if err != nil {
		t.Fatalf("open thumbnail: %v", err)
	}
	b := thumb.Bounds()
	if b.Dy() != 224 {
		t.Errorf("thumbnail longer dimension = %d, want 224", b.Dy())
	}
	if b.Dx() != 112 {
		t.Errorf("thumbnail width = %d, want 112 (aspect preserved)", b.Dx())
	}
}

func TestCategoryClassifier_NegativeProducesNoEvidence(t *testing.T) {
	dir := t.TempDir()
	imagePath := writeTestImage(t, dir, 320, 240)
	thumbPath := filepath.Join(dir, "thumb.jpg")

	// Index 281 (tabby cat) is outside the target set.
	c := NewCategoryClassifier(&stubScorer{pred: Prediction{Index: 281, Label: "tabby"}}, nil, 224)

	detected, evidence, err := c.Classify(imagePath, thumbPath)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if detected {
		t.Fatal("non-target category classified as positive")
	}
	if evidence != "" {
		t.Errorf("evidence path = %q, want empty", evidence)
	}
	if _, err := os.Stat(thumbPath); !os.IsNotExist(err) {
		t.Error("thumbnail written despite negative decision")
	}
}

func TestCategoryClassifier_ScorerFailure(t *testing.T) {
	dir := t.TempDir()
	imagePath := writeTestImage(t, dir, 320, 240)

	c := NewCategoryClassifier(&stubScorer{err: errors.New("model unavailable")}, nil, 224)

	_, _, err := c.Classify(imagePath, filepath.Join(dir, "thumb.jpg"))
	var cerr *Error
	if !errors.As(err, &cerr) {
		t.Fatalf("error = %v, want *classify.Error", err)
	}
	if cerr.Stage != "score" {
		t.Errorf("stage = %q, want %q", cerr.Stage, "score")
	}
}

func TestCategoryClassifier_MissingImage(t *testing.T) {
	dir := t.TempDir()
	c := NewCategoryClassifier(&stubScorer{pred: Prediction{Index: 13}}, nil, 224)

	_, _, err := c.Classify(filepath.Join(dir, "nope.jpg"), filepath.Join(dir, "thumb.jpg"))
	var cerr *Error
	if !errors.As(err, &cerr) {
		t.Fatalf("error = %v, want *classify.Error", err)
	}
}

func TestCategoryClassifier_CustomTargetSet(t *testing.T) {
	dir := t.TempDir()
	imagePath := writeTestImage(t, dir, 100, 100)
	thumbPath := filepath.Join(dir, "thumb.jpg")

	c := NewCategoryClassifier(&stubScorer{pred: Prediction{Index: 13}}, []int{500}, 224)

	detected, _, err := c.Classify(imagePath, thumbPath)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if detected {
		t.Error("index 13 matched a target set that only contains 500")
	}
}

func TestDefaultTargetCategories(t *testing.T) {
	targets := make(map[int]struct{})
	for _, idx := range DefaultTargetCategories() {
		targets[idx] = struct{}{}
	}
	for _, want := range []int{7, 24, 100, 146, 448} {
		if _, ok := targets[want]; !ok {
			t.Errorf("index %d missing from default target set", want)
		}
	}
	for _, not := range []int{20, 281, 447} {
		if _, ok := targets[not]; ok {
			t.Errorf("index %d must not be in the default target set", not)
		}
	}
}

func TestHTTPScorer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if len(body) == 0 {
			http.Error(w, "empty body", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"index": 13, "label": "junco"}`))
	}))
	defer srv.Close()

	s := NewHTTPScorer(srv.URL, 5*time.Second)
	pred, err := s.Score(io.NopCloser(io.LimitReader(neverEmpty{}, 16)))
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if pred.Index != 13 || pred.Label != "junco" {
		t.Errorf("prediction = %+v, want {13 junco}", pred)
	}
}

func TestHTTPScorer_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewHTTPScorer(srv.URL, 5*time.Second)
	if _, err := s.Score(io.LimitReader(neverEmpty{}, 16)); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

// neverEmpty yields an endless stream of bytes; LimitReader bounds it.
type neverEmpty struct{}

func (neverEmpty) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0xAB
	}
	return len(p), nil
}
