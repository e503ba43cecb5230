package wire

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "campushire.v1.CampusHire"

// Method returns the full gRPC method path for name.
func Method(name string) string {
	return "/" + ServiceName + "/" + name
}

// Method names.
const (
	MethodPing              = "Ping"
	MethodSignUp            = "SignUp"
	MethodSignIn            = "SignIn"
	MethodRefreshToken      = "RefreshToken"
	MethodSignOut           = "SignOut"
	MethodSendPasswordReset = "SendPasswordReset"
	MethodResetPassword     = "ResetPassword"
	MethodGetDocument       = "GetDocument"
	MethodListDocuments     = "ListDocuments"
	MethodQueryDocuments    = "QueryDocuments"
	MethodAddDocument       = "AddDocument"
	MethodSetDocument       = "SetDocument"
	MethodDeleteFields      = "DeleteFields"
	MethodDeleteDocument    = "DeleteDocument"
	MethodPresignUpload     = "PresignUpload"
	MethodPresignDownload   = "PresignDownload"
	MethodDeleteBlob        = "DeleteBlob"
)

// Public lists the methods callable without an access token.
var Public = map[string]struct{}{
	Method(MethodPing):              {},
	Method(MethodSignUp):            {},
	Method(MethodSignIn):            {},
	Method(MethodRefreshToken):      {},
	Method(MethodSignOut):           {},
	Method(MethodSendPasswordReset): {},
	Method(MethodResetPassword):     {},
}

type PingResponse struct {
	Status string `json:"status"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Session struct {
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type PasswordResetRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// Document is a record of the document store. Path is the full document
// path, e.g. "users/u1/applications/a1"; ID is its last segment.
type Document struct {
	Path string         `json:"path"`
	ID   string         `json:"id"`
	Data map[string]any `json:"data"`
}

type DocumentRequest struct {
	Path string `json:"path"`
}

type DocumentResponse struct {
	Found    bool     `json:"found"`
	Document Document `json:"document"`
}

type CollectionRequest struct {
	Collection string `json:"collection"`
}

type QueryRequest struct {
	Collection string `json:"collection"`
	Field      string `json:"field"`
	Value      any    `json:"value"`
}

type DocumentsResponse struct {
	Documents []Document `json:"documents"`
}

type AddDocumentRequest struct {
	Collection string         `json:"collection"`
	Data       map[string]any `json:"data"`
}

type AddDocumentResponse struct {
	ID string `json:"id"`
}

type SetDocumentRequest struct {
	Path  string         `json:"path"`
	Data  map[string]any `json:"data"`
	Merge bool           `json:"merge"`
}

type DeleteFieldsRequest struct {
	Path   string   `json:"path"`
	Fields []string `json:"fields"`
}

type BlobRequest struct {
	Path string `json:"path"`
}

type BlobURLResponse struct {
	URL string `json:"url"`
}

type Empty struct{}
