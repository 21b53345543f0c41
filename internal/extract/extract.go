package extract

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/ledongthuc/pdf"
)

// MimePDF is the only content type this service ingests.
const MimePDF = "application/pdf"

var errEmptyPayload = errors.New("empty pdf data")

// PDFText extracts plain text from an in-memory PDF payload.
// Library used: github.com/ledongthuc/pdf.
func PDFText(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", errEmptyPayload
	}

	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}
