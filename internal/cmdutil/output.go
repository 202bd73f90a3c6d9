package cmdutil

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/cli/go-gh/v2/pkg/jq"
	"github.com/cli/go-gh/v2/pkg/jsonpretty"
	"github.com/go-faster/errors"

	"github.com/yacchi/danmaku-cli/internal/ui"
)

// JSONOutputOptions は JSON 出力の形式
type JSONOutputOptions struct {
	// JQFilter が空でなければ jq 式を通した結果を出す
	JQFilter string
	// Pretty はインデントする。色付けは ui の色設定に従う
	Pretty bool
}

// OutputJSON は data を JSON として w に書く
func OutputJSON(w io.Writer, data any, opts JSONOutputOptions) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return errors.Wrap(err, "marshal data")
	}
	colorize := opts.Pretty && ui.IsColorEnabled()

	switch {
	case opts.JQFilter != "":
		err = jq.EvaluateFormatted(bytes.NewReader(raw), w, opts.JQFilter, "  ", colorize)
		return errors.Wrap(err, "evaluate jq filter")
	case opts.Pretty:
		return jsonpretty.Format(w, bytes.NewReader(raw), "  ", colorize)
	default:
		_, err = w.Write(append(raw, '\n'))
		return err
	}
}

// OutputJSONToStdout は整形して標準出力に書く
func OutputJSONToStdout(data any, jqFilter string) error {
	return OutputJSON(os.Stdout, data, JSONOutputOptions{JQFilter: jqFilter, Pretty: true})
}
