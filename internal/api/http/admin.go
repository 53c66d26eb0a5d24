package http

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"

	sq "github.com/Masterminds/squirrel"
	"github.com/go-chi/chi/v5"

	"github.com/qcm-hub/scoreboard/internal/apperr"
)

// sqlBuilder uses $N placeholders, shared by the sqlite and pgx drivers.
var sqlBuilder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// tableSpec allowlists a table, its writable columns and its page order.
// idCol is empty for tables without a single-column key (scores: composite
// primary key, by-id operations are refused there).
type tableSpec struct {
	idCol   string
	orderBy string
	cols    []string
}

var adminTables = map[string]tableSpec{
	"etudiants":     {idCol: "id", orderBy: "id", cols: []string{"external_id"}},
	"sujets":        {idCol: "id", orderBy: "id", cols: []string{"session", "theme"}},
	"scores":        {orderBy: "etudiant_id, sujet_id", cols: []string{"etudiant_id", "sujet_id", "score", "max_score", "updated_at"}},
	"quiz_sessions": {idCol: "id", orderBy: "id", cols: []string{"session_id", "started_at", "completed_at", "num_themes", "num_questions_total", "num_correct_total", "themes"}},
}

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

// MountAdmin wires the generic table CRUD passthrough. The caller gates the
// router with the bearer middleware.
func MountAdmin(r chi.Router, db *sql.DB) {
	r.Get("/tables/{table}", listRowsHandler(db))
	r.Post("/tables/{table}", insertRowHandler(db))
	r.Get("/tables/{table}/{id}", getRowHandler(db))
	r.Put("/tables/{table}/{id}", updateRowHandler(db))
	r.Delete("/tables/{table}/{id}", deleteRowHandler(db))
}

func tableFromURL(r *http.Request) (string, tableSpec, error) {
	name := chi.URLParam(r, "table")
	spec, ok := adminTables[name]
	if !ok {
		return "", tableSpec{}, apperr.NotFound("table " + name)
	}
	return name, spec, nil
}

// idFromURL parses the row id. Tables without a single-column key (scores)
// refuse by-id operations.
func idFromURL(r *http.Request, name string, spec tableSpec) (int64, error) {
	if spec.idCol == "" {
		return 0, apperr.Invalid("table " + name + " has no id column")
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, apperr.Invalid("id must be an integer")
	}
	return id, nil
}

func listRowsHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, spec, err := tableFromURL(r)
		if err != nil {
			writeError(w, err)
			return
		}
		limit := intQuery(r, "limit", defaultListLimit)
		if limit > maxListLimit {
			limit = maxListLimit
		}
		offset := intQuery(r, "offset", 0)

		query, args, err := sqlBuilder.Select("*").From(name).
			OrderBy(spec.orderBy).
			Limit(uint64(limit)).Offset(uint64(offset)).ToSql()
		if err != nil {
			writeError(w, err)
			return
		}
		rows, err := db.QueryContext(r.Context(), query, args...)
		if err != nil {
			writeError(w, apperr.Datastore(err))
			return
		}
		defer rows.Close()
		out, err := scanRows(rows)
		if err != nil {
			writeError(w, apperr.Datastore(err))
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "rows": out, "count": len(out)})
	}
}

func getRowHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, spec, err := tableFromURL(r)
		if err != nil {
			writeError(w, err)
			return
		}
		id, err := idFromURL(r, name, spec)
		if err != nil {
			writeError(w, err)
			return
		}
		query, args, err := sqlBuilder.Select("*").From(name).
			Where(sq.Eq{spec.idCol: id}).ToSql()
		if err != nil {
			writeError(w, err)
			return
		}
		rows, err := db.QueryContext(r.Context(), query, args...)
		if err != nil {
			writeError(w, apperr.Datastore(err))
			return
		}
		defer rows.Close()
		out, err := scanRows(rows)
		if err != nil {
			writeError(w, apperr.Datastore(err))
			return
		}
		if len(out) == 0 {
			writeError(w, apperr.NotFound("row"))
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "row": out[0]})
	}
}

func insertRowHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, spec, err := tableFromURL(r)
		if err != nil {
			writeError(w, err)
			return
		}
		values, err := decodeColumns(r, spec)
		if err != nil {
			writeError(w, err)
			return
		}
		query, args, err := sqlBuilder.Insert(name).SetMap(values).ToSql()
		if err != nil {
			writeError(w, err)
			return
		}
		if _, err := db.ExecContext(r.Context(), query, args...); err != nil {
			writeError(w, apperr.Datastore(err))
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"ok": true})
	}
}

func updateRowHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, spec, err := tableFromURL(r)
		if err != nil {
			writeError(w, err)
			return
		}
		id, err := idFromURL(r, name, spec)
		if err != nil {
			writeError(w, err)
			return
		}
		values, err := decodeColumns(r, spec)
		if err != nil {
			writeError(w, err)
			return
		}
		query, args, err := sqlBuilder.Update(name).SetMap(values).
			Where(sq.Eq{spec.idCol: id}).ToSql()
		if err != nil {
			writeError(w, err)
			return
		}
		res, err := db.ExecContext(r.Context(), query, args...)
		if err != nil {
			writeError(w, apperr.Datastore(err))
			return
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			writeError(w, apperr.NotFound("row"))
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "updated": n})
	}
}

func deleteRowHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, spec, err := tableFromURL(r)
		if err != nil {
			writeError(w, err)
			return
		}
		id, err := idFromURL(r, name, spec)
		if err != nil {
			writeError(w, err)
			return
		}
		query, args, err := sqlBuilder.Delete(name).
			Where(sq.Eq{spec.idCol: id}).ToSql()
		if err != nil {
			writeError(w, err)
			return
		}
		res, err := db.ExecContext(r.Context(), query, args...)
		if err != nil {
			writeError(w, apperr.Datastore(err))
			return
		}
		n, _ := res.RowsAffected()
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "deleted": n})
	}
}

// decodeColumns reads a JSON object body and keeps only allowlisted columns.
func decodeColumns(r *http.Request, spec tableSpec) (map[string]any, error) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, apperr.Invalid("expected a JSON object")
	}
	values := map[string]any{}
	for _, col := range spec.cols {
		if v, ok := body[col]; ok {
			values[col] = v
		}
	}
	if len(values) == 0 {
		return nil, apperr.Invalid("no writable columns in body")
	}
	return values, nil
}

func scanRows(rows *sql.Rows) ([]map[string]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	out := []map[string]any{}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := map[string]any{}
		for i, c := range cols {
			v := vals[i]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			row[c] = v
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func intQuery(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
