package resource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"notielf/internal/domain"
	"notielf/internal/domain/models"
	"notielf/internal/domain/repositories"
	"notielf/internal/httputil"
	"notielf/internal/repository/postgres"
)

// Dispatcher serves every configured resource through one generic handler.
// Path shape is {resource}, {resource}/{id} or {resource}/{id}/{subkey};
// the resource config decides which operations, fields and hooks apply.
type Dispatcher struct {
	pool    *pgxpool.Pool
	tx      repositories.TransactionManager
	config  *Config
	timeout time.Duration
	logger  *slog.Logger
}

// NewDispatcher creates the generic resource dispatcher.
func NewDispatcher(pool *pgxpool.Pool, tx repositories.TransactionManager, config *Config, timeout time.Duration, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		pool:    pool,
		tx:      tx,
		config:  config,
		timeout: timeout,
		logger:  logger,
	}
}

func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ident := httputil.GetIdentity(r)
	if ident == nil {
		httputil.RespondError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	resourceName, id, subkey, err := parsePath(r.URL.Path)
	if err != nil {
		httputil.HandleError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), d.timeout)
	defer cancel()

	switch r.Method {
	case http.MethodGet:
		d.handleGet(ctx, w, r, ident, resourceName, id, subkey)
	case http.MethodPost:
		d.handlePost(ctx, w, r, ident, resourceName, id, subkey)
	case http.MethodPut, http.MethodPatch:
		d.handleUpdate(ctx, w, r, ident, resourceName, id, subkey)
	case http.MethodDelete:
		d.handleDelete(ctx, w, ident, resourceName, id, subkey)
	default:
		httputil.RespondError(w, http.StatusMethodNotAllowed, "validation", "method not allowed")
	}
}

// parsePath splits "{resource}[/{id}[/{subkey}]]" out of the request path.
func parsePath(path string) (resource string, id int64, subkey string, err error) {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return "", 0, "", &domain.ValidationError{Message: "resource name is required"}
	}

	parts := strings.Split(trimmed, "/")
	if len(parts) > 3 {
		return "", 0, "", &domain.ValidationError{Message: "invalid resource path"}
	}

	resource = parts[0]
	if len(parts) >= 2 {
		id, err = strconv.ParseInt(parts[1], 10, 64)
		if err != nil || id <= 0 {
			return "", 0, "", &domain.ValidationError{Message: fmt.Sprintf("invalid id %q", parts[1])}
		}
	}
	if len(parts) == 3 {
		subkey = parts[2]
	}

	return resource, id, subkey, nil
}

// resolve finds the resource config for the path, descending into a subkey
// resource when one is named.
func (d *Dispatcher) resolve(resourceName string, id int64, subkey string) (*Resource, error) {
	res, ok := d.config.Resource(resourceName)
	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("unknown resource %q", resourceName)}
	}

	if subkey == "" {
		return res, nil
	}
	if id == 0 {
		return nil, &domain.ValidationError{Message: "sub-resource requires a parent id"}
	}
	sub, ok := res.Subkeys[subkey]
	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("unknown sub-resource %q on %s", subkey, resourceName)}
	}
	return sub, nil
}

func (d *Dispatcher) handleGet(ctx context.Context, w http.ResponseWriter, r *http.Request, ident *models.Identity, resourceName string, id int64, subkey string) {
	res, err := d.resolve(resourceName, id, subkey)
	if err != nil {
		httputil.HandleError(w, err)
		return
	}

	// Computed reads bypass the generic builder entirely.
	if res.selectFunc != nil {
		result, err := res.selectFunc(ctx, ident, id)
		if err != nil {
			httputil.HandleError(w, err)
			return
		}
		httputil.RespondJSON(w, http.StatusOK, result)
		return
	}

	q := NewQuery()
	if err := q.ApplyListOptions(res, r.URL.Query()); err != nil {
		httputil.HandleError(w, err)
		return
	}
	if res.beforeSelect != nil {
		if err := res.beforeSelect(ident, q, id); err != nil {
			httputil.HandleError(w, err)
			return
		}
	}

	// A sub-resource select keys on the parent id column; a plain by-id
	// select keys on the resource's own key. Either way the id is a bound
	// parameter against res.Key, which the config already points at the
	// right column.
	query, args, err := BuildSelect(res, q, id)
	if err != nil {
		httputil.HandleError(w, err)
		return
	}

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		d.logger.Error("resource select failed", "resource", res.name, "error", err)
		httputil.HandleError(w, &domain.DatabaseError{Message: "query failed", Err: err})
		return
	}
	result, err := CollectRows(rows)
	if err != nil {
		d.logger.Error("resource select scan failed", "resource", res.name, "error", err)
		httputil.HandleError(w, &domain.DatabaseError{Message: "query failed", Err: err})
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

func (d *Dispatcher) handlePost(ctx context.Context, w http.ResponseWriter, r *http.Request, ident *models.Identity, resourceName string, id int64, subkey string) {
	if id != 0 || subkey != "" {
		httputil.HandleError(w, &domain.ValidationError{Message: "POST takes a resource or action name only"})
		return
	}

	var body map[string]any
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.HandleError(w, &domain.ValidationError{Message: err.Error()})
		return
	}
	body = normalizeNumbers(body)

	// Named actions take precedence over resources of the same name.
	if action, ok := d.config.Action(resourceName); ok {
		result, err := action(ctx, ident, body)
		if err != nil {
			httputil.HandleError(w, err)
			return
		}
		httputil.RespondJSON(w, http.StatusOK, result)
		return
	}

	res, ok := d.config.Resource(resourceName)
	if !ok {
		httputil.HandleError(w, &domain.NotFoundError{Message: fmt.Sprintf("unknown resource %q", resourceName)})
		return
	}
	if len(res.Create) == 0 {
		httputil.HandleError(w, &domain.ConfigError{Message: fmt.Sprintf("create operation not allowed on %s", res.name)})
		return
	}

	payload := filterFields(body, res.Create)
	if res.beforeCreate != nil {
		if err := res.beforeCreate(ident, payload); err != nil {
			httputil.HandleError(w, err)
			return
		}
	}

	query, args, err := BuildInsert(res, payload)
	if err != nil {
		httputil.HandleError(w, err)
		return
	}

	var created map[string]any
	err = d.tx.ExecTx(ctx, func(txCtx context.Context) error {
		exec := postgres.GetExecutor(txCtx, d.pool)
		rows, err := exec.Query(txCtx, query, args...)
		if err != nil {
			return err
		}
		result, err := CollectRows(rows)
		if err != nil {
			return err
		}
		if len(result) == 0 {
			return &domain.DatabaseError{Message: "insert returned no row"}
		}
		created = result[0]

		if res.afterCreate != nil {
			if err := res.afterCreate(txCtx, ident, body, created); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		d.handleMutationError(w, res, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, []map[string]any{created})
}

func (d *Dispatcher) handleUpdate(ctx context.Context, w http.ResponseWriter, r *http.Request, ident *models.Identity, resourceName string, id int64, subkey string) {
	if subkey != "" {
		httputil.HandleError(w, &domain.ValidationError{Message: "sub-resources are read-only"})
		return
	}
	if id == 0 {
		httputil.HandleError(w, &domain.ValidationError{Message: "update requires an id"})
		return
	}

	res, ok := d.config.Resource(resourceName)
	if !ok {
		httputil.HandleError(w, &domain.NotFoundError{Message: fmt.Sprintf("unknown resource %q", resourceName)})
		return
	}
	if len(res.Update) == 0 {
		httputil.HandleError(w, &domain.ConfigError{Message: fmt.Sprintf("update operation not allowed on %s", res.name)})
		return
	}

	var body map[string]any
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.HandleError(w, &domain.ValidationError{Message: err.Error()})
		return
	}
	payload := filterFields(normalizeNumbers(body), res.Update)

	q := NewQuery()
	if res.beforeUpdate != nil {
		if err := res.beforeUpdate(ident, q, id); err != nil {
			httputil.HandleError(w, err)
			return
		}
	}

	query, args, err := BuildUpdate(res, payload, q, id)
	if err != nil {
		httputil.HandleError(w, err)
		return
	}

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		d.handleMutationError(w, res, err)
		return
	}
	result, err := CollectRows(rows)
	if err != nil {
		d.handleMutationError(w, res, err)
		return
	}
	if len(result) == 0 {
		// Either the row does not exist or the scoping where excluded it;
		// both look identical to the caller.
		httputil.HandleError(w, &domain.NotFoundError{Message: fmt.Sprintf("%s %d not found", res.name, id)})
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result[0])
}

func (d *Dispatcher) handleDelete(ctx context.Context, w http.ResponseWriter, ident *models.Identity, resourceName string, id int64, subkey string) {
	if subkey != "" {
		httputil.HandleError(w, &domain.ValidationError{Message: "sub-resources are read-only"})
		return
	}
	if id == 0 {
		httputil.HandleError(w, &domain.ValidationError{Message: "delete requires an id"})
		return
	}

	res, ok := d.config.Resource(resourceName)
	if !ok {
		httputil.HandleError(w, &domain.NotFoundError{Message: fmt.Sprintf("unknown resource %q", resourceName)})
		return
	}

	q := NewQuery()
	if res.beforeDelete != nil {
		if err := res.beforeDelete(ident, q, id); err != nil {
			httputil.HandleError(w, err)
			return
		}
	}

	query, args, err := BuildDelete(res, q, id)
	if err != nil {
		httputil.HandleError(w, err)
		return
	}

	tag, err := d.pool.Exec(ctx, query, args...)
	if err != nil {
		d.handleMutationError(w, res, err)
		return
	}
	if tag.RowsAffected() == 0 {
		httputil.HandleError(w, &domain.NotFoundError{Message: fmt.Sprintf("%s %d not found", res.name, id)})
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]any{"success": true})
}

// handleMutationError classifies database failures from writes. Constraint
// violations become client errors; everything else stays an opaque 500.
func (d *Dispatcher) handleMutationError(w http.ResponseWriter, res *Resource, err error) {
	var httpErr domain.HTTPError
	switch {
	case errors.As(err, &httpErr):
		httputil.HandleError(w, err)
	case postgres.IsPgDuplicateError(err):
		httputil.HandleError(w, &domain.ConflictError{Message: "duplicate entry"})
	case postgres.IsPgForeignKeyError(err):
		httputil.HandleError(w, &domain.ValidationError{Message: "referenced row does not exist"})
	case postgres.IsPgNoRowsError(err):
		httputil.HandleError(w, &domain.NotFoundError{Message: "resource not found"})
	default:
		d.logger.Error("resource mutation failed", "resource", res.name, "error", err)
		httputil.HandleError(w, &domain.DatabaseError{Message: "query failed", Err: err})
	}
}

// filterFields keeps only whitelisted keys from the decoded body. Unknown
// keys are dropped silently rather than rejected, so clients can post richer
// payloads that hooks (for example the folder link on document create) read
// from the raw body.
func filterFields(body map[string]any, allowed []string) map[string]any {
	out := make(map[string]any, len(allowed))
	for _, field := range allowed {
		if v, ok := body[field]; ok {
			out[field] = v
		}
	}
	return out
}

// normalizeNumbers converts integral JSON numbers (decoded as float64) to
// int64 so they bind cleanly to bigint columns through pgx.
func normalizeNumbers(body map[string]any) map[string]any {
	for k, v := range body {
		f, ok := v.(float64)
		if !ok {
			continue
		}
		if f == float64(int64(f)) {
			body[k] = int64(f)
		}
	}
	return body
}
