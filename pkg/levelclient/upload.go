package levelclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

// MaxCSVSize — предельный размер CSV-файла с заказами, 100 МиБ.
const MaxCSVSize = 100 << 20

// Ошибки клиентской проверки файла, выполняемой до обращения к серверу.
var (
	ErrNotCSV       = errors.New("file must have a .csv extension")
	ErrFileTooLarge = errors.New("file exceeds the 100 MiB limit")
)

// UploadResult — итог обработки CSV-файла сервером.
type UploadResult struct {
	Accepted int `json:"accepted"`
	Queued   int `json:"queued"`
}

// ValidateCSV проверяет имя и размер файла перед загрузкой.
func ValidateCSV(filename string, size int64) error {
	if !strings.HasSuffix(strings.ToLower(filename), ".csv") {
		return ErrNotCSV
	}
	if size > MaxCSVSize {
		return ErrFileTooLarge
	}
	return nil
}

// UploadOrders загружает CSV-файл с заказами. Проверка имени и размера
// выполняется до какого-либо сетевого вызова; файл передаётся как
// multipart/form-data с полем file.
func (c *Client) UploadOrders(ctx context.Context, filename string, size int64, r io.Reader) (*UploadResult, error) {
	if err := ValidateCSV(filename, size); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("copy file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/api/orders/upload-csv", mw.FormDataContentType(), buf.Bytes())
	if err != nil {
		return nil, err
	}

	var result UploadResult
	if err := decodeData(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
