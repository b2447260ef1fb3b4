// Package movies provides the CLI runner that lists and searches the catalog.
package movies

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/goccy/go-json"

	"tableflip.dev/cinerec/pkg/app"
	"tableflip.dev/cinerec/pkg/logging"
	"tableflip.dev/cinerec/pkg/printers"
)

type Movies struct {
	App    *app.Service
	Query  string
	Limit  int
	ShowID bool
	JSON   bool
	Out    io.Writer
}

func (m *Movies) Do(ctx context.Context) error {
	if m.App == nil {
		return errors.New("can not list movies, no backend")
	}
	out := m.Out
	if out == nil {
		out = color.Output
	}

	found, err := m.App.Search(ctx, m.Query)
	if err != nil {
		logging.Warn().Err(err).Msg("catalog unavailable, showing empty catalog")
	}
	if m.Limit > 0 && len(found) > m.Limit {
		found = found[:m.Limit]
	}

	if m.JSON {
		b, err := json.Marshal(found)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, string(b))
		return nil
	}

	pp := printers.PrettyPrint{ShowID: m.ShowID, Out: out}
	pp.NewLine()
	if m.Query != "" {
		pp.TitleWithCount(fmt.Sprintf("Movies matching %q", m.Query), len(found))
	} else {
		pp.TitleWithCount("Movies", len(found))
	}
	pp.Movies(found...)
	return nil
}
