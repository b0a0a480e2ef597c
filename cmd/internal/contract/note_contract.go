package contract

const (
	MaxNoteFileSizeBytes = 30 * 1024 * 1024
	MaxCommentLength     = 2000

	NoteFileField = "pdf"
	PDFMimeType   = "application/pdf"
)

var ValidNoteFileTypes = []string{"pdf"}

type UploaderResponse struct {
	ID    int64  `json:"id,string"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type NoteResponse struct {
	ID              int64             `json:"id,string"`
	Title           string            `json:"title"`
	PdfURL          string            `json:"pdfUrl"`
	Department      string            `json:"department"`
	Subject         string            `json:"subject"`
	Unit            int               `json:"unit"`
	Topic           string            `json:"topic"`
	UploadedBy      *UploaderResponse `json:"uploadedBy"`
	CreditsRequired int               `json:"creditsRequired"`
	Views           int               `json:"views"`
	IsValidated     bool              `json:"isValidated"`
	Rating          *float64          `json:"rating"`
	RatingCount     int               `json:"ratingCount"`
	CreatedAt       string            `json:"createdAt"`
	UpdatedAt       string            `json:"updatedAt"`
}

// VisibleNoteResponse is a validated note as seen by one specific viewer.
type VisibleNoteResponse struct {
	ID              int64    `json:"id,string"`
	Title           string   `json:"title"`
	PdfURL          string   `json:"pdfUrl"`
	Department      string   `json:"department"`
	Subject         string   `json:"subject"`
	Unit            int      `json:"unit"`
	Topic           string   `json:"topic"`
	CreditsRequired int      `json:"creditsRequired"`
	CanAccess       bool     `json:"canAccess"`
	Views           int      `json:"views"`
	AvgStars        *float64 `json:"avgStars"`
	Comments        []string `json:"comments"`
}

// NoteUploadRequest carries the form fields sent alongside the PDF.
// Numbers arrive as form text and are parsed once validated. The max=9
// on them caps the digit count, not the value.
type NoteUploadRequest struct {
	Title           string `form:"title" validate:"required,notblank,max=200"`
	Department      string `form:"department" validate:"required,notblank,max=100"`
	Subject         string `form:"subject" validate:"required,notblank,max=100"`
	Unit            string `form:"unit" validate:"required,number,max=9"`
	Topic           string `form:"topic" validate:"required,notblank,max=200"`
	CreditsRequired string `form:"creditsRequired" validate:"omitempty,number,max=9"`
}

type NoteUploadResponse struct {
	Message string        `json:"message"`
	Note    *NoteResponse `json:"note"`
}

type NoteFilterRequest struct {
	Department string `query:"department"`
	Subject    string `query:"subject"`
	Unit       string `query:"unit"`
	Topic      string `query:"topic"`
}

type ValidationRequest struct {
	Stars   *int   `json:"stars" validate:"required"`
	Comment string `json:"comment" validate:"max=2000"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type NoteViewResponse struct {
	Message string               `json:"message"`
	Note    *VisibleNoteResponse `json:"note"`
	Credits int                  `json:"credits"`
}

type NoteDownloadResponse struct {
	Message string `json:"message"`
	PdfURL  string `json:"pdfUrl"`
	Credits int    `json:"credits"`
}
