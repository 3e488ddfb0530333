package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dkushnir/library-service-api/api/middleware"
	"github.com/dkushnir/library-service-api/api/responses"
	"github.com/dkushnir/library-service-api/api/validators"
	"github.com/dkushnir/library-service-api/internal/borrowings"
	pkgerrors "github.com/dkushnir/library-service-api/pkg/errors"
	"github.com/dkushnir/library-service-api/pkg/logger"
)

const (
	returnedMessage        = "The book has been returned"
	alreadyReturnedMessage = "The book was already returned"
)

type createBorrowingRequest struct {
	BorrowDate         string `json:"borrow_date" validate:"required,datetime=2006-01-02"`
	ExpectedReturnDate string `json:"expected_return_date" validate:"required,datetime=2006-01-02"`
	Book               string `json:"book" validate:"required"`
}

func callerFromContext(r *http.Request) borrowings.Caller {
	ctx := r.Context()
	return borrowings.Caller{
		UserID:  middleware.UserIDFromContext(ctx),
		IsStaff: middleware.IsStaffFromContext(ctx),
	}
}

// BorrowingsList returns borrowings visible to the caller. Non-staff users
// only ever see their own.
func BorrowingsList(svc borrowings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "borrowings service unavailable"))
			return
		}

		caller := callerFromContext(r)

		userID, err := validators.ParseQueryUint(r, "user_id")
		if err != nil {
			// The filter is discarded for non-staff callers anyway, so a
			// malformed value from them is dropped rather than rejected.
			if caller.IsStaff {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			userID = 0
		}

		filters := borrowings.ListFilters{
			IsActive: validators.QueryFlag(r, "is_active"),
			UserID:   userID,
		}

		list, err := svc.List(r.Context(), caller, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// BorrowingsCreate opens a borrowing, consuming one inventory unit of the
// requested book.
func BorrowingsCreate(svc borrowings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "borrowings service unavailable"))
			return
		}

		var body createBorrowingRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		borrowDate, err := time.Parse("2006-01-02", body.BorrowDate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "borrow_date must be a date in YYYY-MM-DD format"))
			return
		}
		expectedReturn, err := time.Parse("2006-01-02", body.ExpectedReturnDate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "expected_return_date must be a date in YYYY-MM-DD format"))
			return
		}

		created, err := svc.Create(r.Context(), callerFromContext(r), borrowings.CreateInput{
			BorrowDate:         borrowDate,
			ExpectedReturnDate: expectedReturn,
			Book:               body.Book,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

func BorrowingsGet(svc borrowings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "borrowings service unavailable"))
			return
		}

		id, err := validators.ParsePathID(chi.URLParam(r, "borrowingId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Get(r.Context(), callerFromContext(r), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, detail)
	}
}

// BorrowingsReturn closes a borrowing. Repeating the call is harmless; the
// second close reports the earlier return instead of failing.
func BorrowingsReturn(svc borrowings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "borrowings service unavailable"))
			return
		}

		id, err := validators.ParsePathID(chi.URLParam(r, "borrowingId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := svc.Return(r.Context(), callerFromContext(r), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		switch status {
		case borrowings.StatusClosed:
			responses.WriteDetail(w, http.StatusCreated, returnedMessage)
		default:
			responses.WriteDetail(w, http.StatusOK, alreadyReturnedMessage)
		}
	}
}
