package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func TestDriveService_ArchiveAndList(t *testing.T) {
	var uploaded string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodPost:
			body, _ := io.ReadAll(r.Body)
			uploaded = string(body)
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "file-123"})
		case http.MethodGet:
			assert.Contains(t, r.URL.Query().Get("q"), "'reports-folder' in parents")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"files": []map[string]string{
					{"id": "file-123", "name": "Cierre_Turno_0f1e2d3c_2026-10-14.xlsx", "createdTime": "2026-10-14T23:01:02.000Z", "webViewLink": "https://drive.example/file-123"},
				},
			})
		default:
			http.Error(w, "unexpected", http.StatusMethodNotAllowed)
		}
	}))
	defer server.Close()

	ctx := context.Background()
	ds, err := NewDriveService(ctx, "", "reports-folder",
		option.WithEndpoint(server.URL+"/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(server.Client()),
	)
	require.NoError(t, err)

	report := &Report{Filename: "Cierre_Turno_0f1e2d3c_2026-10-14.xlsx", ContentType: ReportContentType, Data: []byte("xlsx-bytes")}
	id, err := ds.Archive(ctx, report)
	require.NoError(t, err)
	assert.Equal(t, "file-123", id)
	assert.True(t, strings.Contains(uploaded, "xlsx-bytes"))
	assert.True(t, strings.Contains(uploaded, "reports-folder"))

	reports, err := ds.ListReports(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "file-123", reports[0].ID)
	assert.Equal(t, "https://drive.example/file-123", reports[0].Link)
}
