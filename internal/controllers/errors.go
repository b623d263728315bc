package controllers

// Тексты ответов об ошибках.
const (
	detailNotFound           = "Not found."
	detailInvalidPage        = "Invalid page."
	detailServerError        = "A server error occurred."
	detailServiceUnavailable = "Service temporarily unavailable, try again later."
	detailMethodNotAllowed   = "Method \"%s\" not allowed."
	detailUnsupportedMedia   = "Unsupported media type \"%s\" in request."
)
