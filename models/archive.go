package models

// ArchivedReport is a shift report stored in the external archive
// Example response:
// {
//   "id": "1AbC...",
//   "name": "Cierre_Turno_0f1e2d3c_2026-10-14.xlsx",
//   "createdTime": "2026-10-14T23:01:02.000Z",
//   "link": "https://drive.google.com/file/d/1AbC.../view"
// }
type ArchivedReport struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CreatedTime string `json:"createdTime"`
	Link        string `json:"link"`
}

// ArchivedReportListResponse represents the response for listing archived reports
type ArchivedReportListResponse struct {
	Reports []ArchivedReport `json:"reports"`
}
