package batch

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/openyolo/assetgen/internal/apperr"
)

// Reason classifies the failure of one asset.
type Reason string

const (
	ReasonNone         Reason = ""
	ReasonInvalidInput Reason = "invalid-input"
	ReasonDraw         Reason = "draw"
	ReasonEncode       Reason = "encode"
	ReasonWrite        Reason = "write"
)

// Classify maps an asset error to its reason. Errors without a
// known mark are drawing failures.
func Classify(err error) Reason {
	switch {
	case err == nil:
		return ReasonNone
	case errors.Is(err, apperr.ErrWrite):
		return ReasonWrite
	case errors.Is(err, apperr.ErrEncode):
		return ReasonEncode
	case errors.Is(err, apperr.ErrInvalidInput):
		return ReasonInvalidInput
	}
	return ReasonDraw
}

// Result is the outcome of one asset.
type Result struct {
	Path   string
	Reason Reason // ReasonNone on success
	Err    error
}

func (r Result) OK() bool { return r.Reason == ReasonNone }

// Report collects the results of a batch, in production order.
// Extras are the auxiliary outputs (scalable icon, resampled icon),
// reported but not counted in the success ratio.
type Report struct {
	Name    string
	Results []Result
	Extras  []Result
}

// Succeeded returns the number of successful counted assets.
func (r Report) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if res.OK() {
			n++
		}
	}
	return n
}

func (r Report) Total() int { return len(r.Results) }

// Failures returns the failed results, extras included.
func (r Report) Failures() []Result {
	var out []Result
	for _, list := range [][]Result{r.Results, r.Extras} {
		for _, res := range list {
			if !res.OK() {
				out = append(out, res)
			}
		}
	}
	return out
}

// String returns the "succeeded/total" summary.
func (r Report) String() string {
	return fmt.Sprintf("%d/%d", r.Succeeded(), r.Total())
}

// Err returns nil when every asset succeeded, or an error
// marked with apperr.ErrPartialBatch listing the failed paths.
func (r Report) Err() error {
	failures := r.Failures()
	if len(failures) == 0 {
		return nil
	}
	paths := make([]string, len(failures))
	for i, f := range failures {
		paths[i] = f.Path
	}
	err := errors.Newf("%s: %d asset(s) failed", r.Name, len(failures))
	err = errors.WithDetail(err, strings.Join(paths, "\n"))
	return errors.Mark(err, apperr.ErrPartialBatch)
}
