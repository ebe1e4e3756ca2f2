package transport

type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TaskCreateRequest struct {
	Text     string  `json:"text"`
	Category string  `json:"category"`
	Project  *string `json:"project"`
	Date     *string `json:"date"`
}

// TaskPatchRequest uses pointers so absent and null fields are left untouched.
type TaskPatchRequest struct {
	Text     *string `json:"text"`
	Category *string `json:"category"`
	Project  *string `json:"project"`
	Date     *string `json:"date"`
	Done     *bool   `json:"done"`
}
