package source

import (
	"context"
	"errors"
	"strings"

	"github.com/tendant/artist-site/pkg/sitecontent"
)

// Fallback tries each source in turn and returns the first record fetched
// successfully. In development the site reads /api/load-content first and
// the static /content.json second.
type Fallback []sitecontent.Source

func (f Fallback) String() string {
	names := make([]string, len(f))
	for i, s := range f {
		names[i] = s.String()
	}
	return strings.Join(names, " | ")
}

// Fetch returns the joined errors of every source when all of them fail.
func (f Fallback) Fetch(ctx context.Context) (sitecontent.RawRecord, error) {
	if len(f) == 0 {
		return sitecontent.RawRecord{}, &sitecontent.FetchError{Source: "fallback", Err: sitecontent.ErrFetchFailed}
	}

	var errs []error
	for _, s := range f {
		record, err := s.Fetch(ctx)
		if err == nil {
			return record, nil
		}
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}
	return sitecontent.RawRecord{}, errors.Join(errs...)
}
