package types

// User represents a backend user account
type User struct {
	ID         ID     `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department,omitempty"`
	Status     string `json:"status,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
}

// UserUpdate carries the editable user fields; empty fields are omitted
type UserUpdate struct {
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	Role       string `json:"role,omitempty"`
	Department string `json:"department,omitempty"`
	Status     string `json:"status,omitempty"`
}

// Department represents a department entry
type Department struct {
	ID             ID     `json:"id"`
	DepartmentName string `json:"department_name"`
}

// DepartmentRequest is the create/update payload for departments
type DepartmentRequest struct {
	DepartmentName string `json:"department_name"`
}

// Document represents an uploaded or manually entered document
type Document struct {
	ID         ID       `json:"id"`
	Title      string   `json:"title"`
	TitleID    ID       `json:"title_id,omitempty"`
	Status     string   `json:"status"`
	Department string   `json:"department,omitempty"`
	FileName   string   `json:"file_name,omitempty"`
	Keywords   []string `json:"keywords,omitempty"`
	Content    string   `json:"content,omitempty"`
	Remarks    string   `json:"remarks,omitempty"`
	UploadedBy string   `json:"uploaded_by,omitempty"`
	CreatedAt  string   `json:"created_at,omitempty"`
}

// ManualEntry is a document typed in instead of uploaded
type ManualEntry struct {
	TitleID  ID       `json:"title_id" yaml:"title_id"`
	Title    string   `json:"title,omitempty" yaml:"title,omitempty"`
	Content  string   `json:"content" yaml:"content"`
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}

// DocumentStatusRequest approves or declines a document
type DocumentStatusRequest struct {
	Status  string `json:"status"`
	Remarks string `json:"remarks,omitempty"`
}

// DocumentInfo is a document type (title) documents are filed under
type DocumentInfo struct {
	ID          ID     `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Department  string `json:"department,omitempty"`
}

// DocumentInfoRequest creates a document type
type DocumentInfoRequest struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// DocumentEdit carries the fields changed by an edit; empty fields are omitted
type DocumentEdit struct {
	Title    string   `json:"title,omitempty"`
	TitleID  ID       `json:"title_id,omitempty"`
	Content  string   `json:"content,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}
