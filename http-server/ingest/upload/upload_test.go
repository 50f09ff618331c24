package upload

import (
	"bytes"
	"context"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"jewelflow/internal/document"
	"jewelflow/internal/service/ingest"
	"jewelflow/internal/service/parse"
	"jewelflow/internal/storage"
)

type mockIngestor struct {
	mock.Mock
}

func (m *mockIngestor) Ingest(filename string, data []byte, designs []storage.MasterDesign, existing []storage.Order) (*ingest.Preview, error) {
	args := m.Called(filename, data, designs, existing)
	var preview *ingest.Preview
	if v := args.Get(0); v != nil {
		preview = v.(*ingest.Preview)
	}
	return preview, args.Error(1)
}

type mockReference struct {
	mock.Mock
}

func (m *mockReference) MasterDesigns(ctx context.Context) ([]storage.MasterDesign, bool, int, error) {
	args := m.Called(ctx)
	var designs []storage.MasterDesign
	if v := args.Get(0); v != nil {
		designs = v.([]storage.MasterDesign)
	}
	return designs, args.Bool(1), args.Int(2), args.Error(3)
}

func (m *mockReference) Orders(ctx context.Context) ([]storage.Order, bool, int, error) {
	args := m.Called(ctx)
	var orders []storage.Order
	if v := args.Get(0); v != nil {
		orders = v.([]storage.Order)
	}
	return orders, args.Bool(1), args.Int(2), args.Error(3)
}

func multipartFile(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func registry() []storage.MasterDesign {
	return []storage.MasterDesign{{DesignCode: "D100", GenericName: "Ring", IsActive: true}}
}

func TestUploadOrders_PreviewOnly(t *testing.T) {
	ref := new(mockReference)
	ref.On("MasterDesigns", mock.Anything).Return(registry(), false, 0, nil)

	ing := new(mockIngestor)
	ing.On("Ingest", "orders.xlsx", mock.Anything, registry(), []storage.Order(nil)).
		Return(&ingest.Preview{UploadRef: "u1"}, nil)

	body, contentType := multipartFile(t, "orders.xlsx", []byte("workbook bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/orders/upload", body)
	req.Header.Set("Content-Type", contentType)

	rr := httptest.NewRecorder()
	UploadOrders(slog.Default(), ing, ref).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"upload_ref":"u1"`)

	// without ?reconcile=true the existing order set is never fetched
	ref.AssertNotCalled(t, "Orders")
	ing.AssertExpectations(t)
}

func TestUploadOrders_WithReconcile(t *testing.T) {
	existing := []storage.Order{{OrderNo: "A1", DesignCode: "D100", Status: storage.StatusPending, Qty: 1}}

	ref := new(mockReference)
	ref.On("MasterDesigns", mock.Anything).Return(registry(), false, 0, nil)
	ref.On("Orders", mock.Anything).Return(existing, false, 0, nil)

	ing := new(mockIngestor)
	ing.On("Ingest", "orders.xlsx", mock.Anything, registry(), existing).
		Return(&ingest.Preview{UploadRef: "u2"}, nil)

	body, contentType := multipartFile(t, "orders.xlsx", []byte("workbook bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/orders/upload?reconcile=true", body)
	req.Header.Set("Content-Type", contentType)

	rr := httptest.NewRecorder()
	UploadOrders(slog.Default(), ing, ref).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	ing.AssertExpectations(t)
}

func TestUploadOrders_StaleRegistryFlag(t *testing.T) {
	ref := new(mockReference)
	ref.On("MasterDesigns", mock.Anything).Return(registry(), true, 0, nil)

	ing := new(mockIngestor)
	ing.On("Ingest", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&ingest.Preview{UploadRef: "u3"}, nil)

	body, contentType := multipartFile(t, "orders.xlsx", []byte("workbook bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/orders/upload", body)
	req.Header.Set("Content-Type", contentType)

	rr := httptest.NewRecorder()
	UploadOrders(slog.Default(), ing, ref).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"stale_registry":true`)
}

func TestUploadOrders_MissingFile(t *testing.T) {
	ref := new(mockReference)
	ing := new(mockIngestor)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("note", "no file here"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/orders/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rr := httptest.NewRecorder()
	UploadOrders(slog.Default(), ing, ref).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	ing.AssertNotCalled(t, "Ingest")
}

func TestUploadOrders_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"unsupported extension", document.ErrUnsupportedFormat, http.StatusBadRequest},
		{"corrupted file", &document.FormatError{Msg: "pdf file is corrupted"}, http.StatusUnprocessableEntity},
		{"no valid rows", &parse.NoValidRowsError{RowErrors: []parse.RowError{{Row: 2, Reason: "missing order no"}}}, http.StatusUnprocessableEntity},
		{"no valid orders", &parse.NoValidOrdersError{}, http.StatusUnprocessableEntity},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ref := new(mockReference)
			ref.On("MasterDesigns", mock.Anything).Return(registry(), false, 0, nil)

			ing := new(mockIngestor)
			ing.On("Ingest", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
				Return(nil, tc.err)

			body, contentType := multipartFile(t, "orders.pdf", []byte("%PDF-"))
			req := httptest.NewRequest(http.MethodPost, "/api/orders/upload", body)
			req.Header.Set("Content-Type", contentType)

			rr := httptest.NewRecorder()
			UploadOrders(slog.Default(), ing, ref).ServeHTTP(rr, req)

			assert.Equal(t, tc.code, rr.Code)
		})
	}
}

func TestUploadOrders_RegistryUnavailable(t *testing.T) {
	ref := new(mockReference)
	ref.On("MasterDesigns", mock.Anything).Return(nil, false, 0, assert.AnError)

	ing := new(mockIngestor)

	body, contentType := multipartFile(t, "orders.xlsx", []byte("workbook bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/orders/upload", body)
	req.Header.Set("Content-Type", contentType)

	rr := httptest.NewRecorder()
	UploadOrders(slog.Default(), ing, ref).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	ing.AssertNotCalled(t, "Ingest")
}
