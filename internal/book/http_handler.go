package book

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"bookshelf/internal/httpx"
)

// TotalCountHeader carries the number of books matching a list query.
const TotalCountHeader = "X-Total-Count"

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Register mounts the book routes on mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /books", h.List)
	mux.HandleFunc("POST /books", h.Create)
	mux.HandleFunc("GET /books/stats", h.Stats)
	mux.HandleFunc("PUT /books/{id}", h.Update)
	mux.HandleFunc("DELETE /books/{id}", h.Delete)
}

// List handles GET /books
// @Summary List books
// @Param q query string false "Substring of title or author"
// @Param sort query string false "title, author or year" default(title)
// @Param order query string false "asc or desc" default(asc)
// @Param offset query int false "Items to skip" default(0)
// @Param limit query int false "Page size" default(10)
// @Success 200 {array} Book
// @Router /books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	params := QueryFromParams(r.URL.Query().Get)

	books, total, err := h.service.List(r.Context(), params)
	if err != nil {
		h.internalError(w, r, "list", err)
		return
	}

	w.Header().Set(TotalCountHeader, strconv.Itoa(total))
	httpx.JSON(w, http.StatusOK, books)
}

// Create handles POST /books
// @Summary Create a book
// @Success 201 {object} Book
// @Failure 409 {object} httpx.ErrorResponse
// @Failure 422 {object} httpx.ErrorResponse
// @Router /books [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in Input
	if !h.decodeBody(w, r, &in) {
		return
	}

	created, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, r, "create", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

// Update handles PUT /books/{id}
// @Summary Update a book; omitted fields are kept
// @Success 200 {object} Book
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Failure 422 {object} httpx.ErrorResponse
// @Router /books/{id} [put]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var p Patch
	if !h.decodeBody(w, r, &p) {
		return
	}

	updated, err := h.service.Update(r.Context(), id, p)
	if err != nil {
		h.writeError(w, r, "update", err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /books/{id}
// @Summary Delete a book
// @Success 204
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 422 {object} httpx.ErrorResponse
// @Router /books/{id} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, "delete", err)
		return
	}
	httpx.NoContent(w)
}

// Stats handles GET /books/stats
// @Summary Collection statistics
// @Success 200 {object} Stats
// @Router /books/stats [get]
func (h *HTTPHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.internalError(w, r, "stats", err)
		return
	}
	httpx.JSON(w, http.StatusOK, stats)
}

// pathID rejects a non-integer id with 422. Integers that cannot match a
// stored book are 404.
func (h *HTTPHandler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.JSONError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid book id",
			[]httpx.ErrorDetail{{Field: "id", Message: "id must be an integer"}})
		return 0, false
	}
	if id < 1 {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
		return 0, false
	}
	return id, true
}

// decodeBody reports 413 for oversized bodies and 422 for anything that is
// not a JSON object of the expected field types.
func (h *HTTPHandler) decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}

	var (
		tooLarge *http.MaxBytesError
		typeErr  *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &tooLarge):
		httpx.JSONError(w, r, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large", nil)
	case errors.As(err, &typeErr) && typeErr.Field != "":
		httpx.JSONError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid book",
			[]httpx.ErrorDetail{{Field: typeErr.Field, Message: fmt.Sprintf("%s must be of type %s", typeErr.Field, typeErr.Type)}})
	default:
		httpx.JSONError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid JSON body", nil)
	}
	return false
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var verrs ValidationErrors
	switch {
	case errors.As(err, &verrs):
		details := make([]httpx.ErrorDetail, len(verrs))
		for i, v := range verrs {
			details[i] = httpx.ErrorDetail{Field: v.Field, Message: v.Message}
		}
		httpx.JSONError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid book", details)
	case errors.Is(err, ErrInvalid):
		httpx.JSONError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
	case errors.Is(err, ErrDuplicate):
		httpx.JSONError(w, r, http.StatusConflict, "DUPLICATE", "A book with the same title and author already exists", nil)
	default:
		h.internalError(w, r, op, err)
	}
}

func (h *HTTPHandler) internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	log.Printf("book %s failed: request_id=%s error=%v", op, httpx.RequestIDFrom(r), err)
	httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
}
