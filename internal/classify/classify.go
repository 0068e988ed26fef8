// Package classify decides whether a captured image contains a bird.
// The model itself is opaque: a Scorer maps an image to one category of
// a closed vocabulary, and the decision is membership of that category
// in a fixed target set. On a positive decision an evidence thumbnail
// is written next to the source image.
package classify

import (
	"fmt"
	"os"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
)

// DefaultThumbnailPx is the target size of the evidence thumbnail's
// longer dimension.
const DefaultThumbnailPx = 224

// Classifier is the contract the pipeline depends on. It returns the
// decision and, when positive, the path of the evidence artifact
// written to thumbPath ("" when negative).
type Classifier interface {
	Classify(imagePath, thumbPath string) (bool, string, error)
}

// Error reports a classification failure: the scorer failed or the
// image was unusable. Event-scoped, handled like a capture failure.
type Error struct {
	Stage string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("classify: %s: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// CategoryClassifier scores an image and tests the predicted category
// against a fixed target set. The vocabulary and the membership set are
// configuration; no category outside the set ever yields a positive.
type CategoryClassifier struct {
	scorer  Scorer
	targets map[int]struct{}
	thumbPx int
}

func NewCategoryClassifier(scorer Scorer, targetCategories []int, thumbPx int) *CategoryClassifier {
	if len(targetCategories) == 0 {
		targetCategories = DefaultTargetCategories()
	}
	if thumbPx <= 0 {
		thumbPx = DefaultThumbnailPx
	}
	targets := make(map[int]struct{}, len(targetCategories))
	for _, idx := range targetCategories {
		targets[idx] = struct{}{}
	}
	return &CategoryClassifier{scorer: scorer, targets: targets, thumbPx: thumbPx}
}

func (c *CategoryClassifier) Classify(imagePath, thumbPath string) (bool, string, error) {
	f, err := os.Open(imagePath)
	if err != nil {
		return false, "", &Error{Stage: "open image", Err: err}
	}
	pred, err := c.scorer.Score(f)
	f.Close()
	if err != nil {
		return false, "", &Error{Stage: "score", Err: err}
	}

	logrus.WithFields(logrus.Fields{
		"index": pred.Index,
		"label": pred.Label,
	}).Info("Predicted class")

	if _, ok := c.targets[pred.Index]; !ok {
		return false, "", nil
	}

	img, err := imaging.Open(imagePath)
	if err != nil {
		return false, "", &Error{Stage: "decode image", Err: err}
	}
	// Fit scales the longer dimension to thumbPx, preserving aspect ratio.
	thumb := imaging.Fit(img, c.thumbPx, c.thumbPx, imaging.Lanczos)
	if err := imaging.Save(thumb, thumbPath); err != nil {
		return false, "", &Error{Stage: "save thumbnail", Err: err}
	}
	return true, thumbPath, nil
}
