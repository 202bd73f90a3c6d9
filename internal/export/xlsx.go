package export

import (
	"io"

	"github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"

	"github.com/yacchi/danmaku-cli/internal/danmaku"
)

// CommentsSheet は弾幕を書き出すシート名
const CommentsSheet = "danmaku"

// WriteCommentsXLSX は弾幕を1シートのXLSXとして書き出す
func WriteCommentsXLSX(w io.Writer, corpus danmaku.Corpus) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "close workbook")
		}
	}()

	if err := f.SetSheetName("Sheet1", CommentsSheet); err != nil {
		return errors.Wrap(err, "rename sheet")
	}

	header := make([]any, len(CommentColumns))
	for i, c := range CommentColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(CommentsSheet, "A1", &header); err != nil {
		return errors.Wrap(err, "write header")
	}

	for i, r := range corpus {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Wrap(err, "cell name")
		}
		row := []any{r.Display, r.Seconds, r.Text}
		if err := f.SetSheetRow(CommentsSheet, cell, &row); err != nil {
			return errors.Wrapf(err, "write row %d", i+2)
		}
	}

	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "write workbook")
	}
	return nil
}
