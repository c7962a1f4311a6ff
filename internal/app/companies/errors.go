package companies

import "github.com/attend-app/attend-api/internal/app/apperr"

var (
	errAlreadyExists = apperr.New(apperr.CodeCompanyAlreadyExists, "The authenticated user already owns a company.")
	errNotFound      = apperr.New(apperr.CodeCompanyNotFound, "Company not found.")
	errUpdateFailed  = apperr.New(apperr.CodeCompanyUpdateFailed, "Failed to update company.")
	errDeleteFailed  = apperr.New(apperr.CodeCompanyDeleteFailed, "Failed to delete company.")

	errForbiddenRead   = apperr.New(apperr.CodeForbidden, "You do not have permission to access this company.")
	errForbiddenUpdate = apperr.New(apperr.CodeForbidden, "You do not have permission to edit this company.")
	errForbiddenDelete = apperr.New(apperr.CodeForbidden, "You do not have permission to delete this company.")
)
