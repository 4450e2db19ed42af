package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"sheets_bridge/internal/a1"
	"sheets_bridge/internal/app"
	"sheets_bridge/internal/operations"
	"sheets_bridge/internal/runner"
	"sheets_bridge/internal/sheets"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// Handler adapts HTTP requests to façade operations. Each request blocks on
// the operation's handle until the outcome arrives or the client goes away.
type Handler struct {
	sheets *operations.Sheets
}

type valueBody struct {
	Value string `json:"value"`
}

type valuesBody struct {
	Values []string `json:"values"`
}

type rowsBody struct {
	Rows app.Table `json:"rows"`
}

type errorBody struct {
	Error     string `json:"error"`
	Kind      string `json:"kind"`
	Operation string `json:"operation,omitempty"`
}

// statusFor maps an error kind to the response status
func statusFor(kind app.ErrorKind) int {
	switch kind {
	case app.KindInvalidArgument:
		return http.StatusBadRequest
	case app.KindNoData:
		return http.StatusNotFound
	case app.KindAuthorizationFailed:
		return http.StatusUnauthorized
	case app.KindTransportInitFailed:
		return http.StatusServiceUnavailable
	case app.KindRemoteFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, err error) {
	body := errorBody{Error: err.Error(), Kind: app.KindOf(err).String()}

	var appErr *app.Error
	if errors.As(err, &appErr) {
		body.Operation = appErr.Op
		if appErr.Message != "" {
			body.Error = appErr.Message
		}
	}
	writeJSON(w, statusFor(app.KindOf(err)), body)
}

// respond waits for the outcome and writes it with render
func respond[T any](w http.ResponseWriter, r *http.Request, h *runner.Handle[T], render func(T) interface{}) {
	v, err := h.Wait(r.Context())
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		log.Debug().Err(err).Str("path", r.URL.Path).Msg("Client went away before the outcome arrived")
		return
	case err != nil:
		writeError(w, err)
		return
	}

	if render == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, render(v))
}

func renderSummary(s sheets.UpdateSummary) interface{} {
	return s
}

func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return app.InvalidArgument("malformed request body: %v", err)
	}
	return nil
}

func intParam(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, app.InvalidArgument("%s must be a number, got %q", name, raw)
	}
	return n, nil
}

// columnParam accepts a column number or its letters
func columnParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "column")
	if n, err := strconv.Atoi(raw); err == nil {
		return n, nil
	}
	return a1.ColumnNumber(raw)
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, app.InvalidArgument("query parameter %s must be a number, got %q", name, raw)
	}
	return n, nil
}

func (h *Handler) readSheet(w http.ResponseWriter, r *http.Request) {
	handle := h.sheets.ReadSheet(chi.URLParam(r, "sheet"), nil)
	respond(w, r, handle, func(t app.Table) interface{} { return rowsBody{Rows: t} })
}

func (h *Handler) readCell(w http.ResponseWriter, r *http.Request) {
	handle := h.sheets.ReadCell(chi.URLParam(r, "sheet"), chi.URLParam(r, "ref"), nil)
	respond(w, r, handle, func(v string) interface{} { return valueBody{Value: v} })
}

func (h *Handler) writeCell(w http.ResponseWriter, r *http.Request) {
	var body valueBody
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	handle := h.sheets.WriteCell(chi.URLParam(r, "sheet"), chi.URLParam(r, "ref"), body.Value, nil)
	respond(w, r, handle, renderSummary)
}

func (h *Handler) readRow(w http.ResponseWriter, r *http.Request) {
	row, err := intParam(r, "row")
	if err != nil {
		writeError(w, err)
		return
	}
	handle := h.sheets.ReadRow(chi.URLParam(r, "sheet"), row, nil)
	respond(w, r, handle, func(v []string) interface{} { return valuesBody{Values: v} })
}

func (h *Handler) writeRow(w http.ResponseWriter, r *http.Request) {
	row, err := intParam(r, "row")
	if err != nil {
		writeError(w, err)
		return
	}
	var body valuesBody
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	handle := h.sheets.WriteRow(chi.URLParam(r, "sheet"), row, body.Values, nil)
	respond(w, r, handle, renderSummary)
}

func (h *Handler) addRow(w http.ResponseWriter, r *http.Request) {
	var body valuesBody
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	handle := h.sheets.AddRow(chi.URLParam(r, "sheet"), body.Values, nil)
	respond(w, r, handle, func(row int) interface{} { return map[string]int{"row": row} })
}

func (h *Handler) readColumn(w http.ResponseWriter, r *http.Request) {
	column, err := columnParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	handle := h.sheets.ReadColumn(chi.URLParam(r, "sheet"), column, nil)
	respond(w, r, handle, func(v []string) interface{} { return valuesBody{Values: v} })
}

func (h *Handler) writeColumn(w http.ResponseWriter, r *http.Request) {
	column, err := columnParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var body valuesBody
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	handle := h.sheets.WriteColumn(chi.URLParam(r, "sheet"), column, body.Values, nil)
	respond(w, r, handle, renderSummary)
}

func (h *Handler) addColumn(w http.ResponseWriter, r *http.Request) {
	var body valuesBody
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	handle := h.sheets.AddColumn(chi.URLParam(r, "sheet"), body.Values, nil)
	respond(w, r, handle, func(column int) interface{} { return map[string]int{"column": column} })
}

func (h *Handler) readRange(w http.ResponseWriter, r *http.Request) {
	handle := h.sheets.ReadRange(chi.URLParam(r, "sheet"), chi.URLParam(r, "ref"), nil)
	respond(w, r, handle, func(t app.Table) interface{} { return rowsBody{Rows: t} })
}

func (h *Handler) writeRange(w http.ResponseWriter, r *http.Request) {
	var body rowsBody
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	handle := h.sheets.WriteRange(chi.URLParam(r, "sheet"), chi.URLParam(r, "ref"), body.Rows, nil)
	respond(w, r, handle, renderSummary)
}

func (h *Handler) removeRow(w http.ResponseWriter, r *http.Request) {
	gridID, err := intParam(r, "gridID")
	if err != nil {
		writeError(w, err)
		return
	}
	row, err := intParam(r, "row")
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, r, h.sheets.RemoveRow(int64(gridID), row, nil), nil)
}

func (h *Handler) removeColumn(w http.ResponseWriter, r *http.Request) {
	gridID, err := intParam(r, "gridID")
	if err != nil {
		writeError(w, err)
		return
	}
	column, err := columnParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, r, h.sheets.RemoveColumn(int64(gridID), column, nil), nil)
}

func (h *Handler) cellReference(w http.ResponseWriter, r *http.Request) {
	row, err := queryInt(r, "row")
	if err != nil {
		writeError(w, err)
		return
	}
	column, err := queryInt(r, "col")
	if err != nil {
		writeError(w, err)
		return
	}

	ref, err := h.sheets.CellReference(row, column)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"ref": ref})
}

func (h *Handler) rangeReference(w http.ResponseWriter, r *http.Request) {
	var corners [4]int
	for i, name := range []string{"row1", "col1", "row2", "col2"} {
		n, err := queryInt(r, name)
		if err != nil {
			writeError(w, err)
			return
		}
		corners[i] = n
	}

	ref, err := h.sheets.RangeReference(corners[0], corners[1], corners[2], corners[3])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"ref": ref})
}
