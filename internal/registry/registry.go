// Package registry owns the ordered catalog of installed hub tools and mediates
// loading, persisting and displaying them.
package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"librahub/internal/domain"
	"librahub/internal/infra/telemetry"
)

const maxIDAttempts = 8

// Options configures a Registry. Only Store is required.
type Options struct {
	Logger   *zap.Logger
	Surface  Surface
	Notifier Notifier
	Picker   Picker
	Blobs    BlobStore
	Metrics  domain.Metrics
	Seed     func() []domain.Tool
	Now      func() time.Time
	NewID    func(now time.Time) string
}

// Registry is the live tool catalog. It is safe for concurrent use.
type Registry struct {
	store    KV
	logger   *zap.Logger
	surface  Surface
	notifier Notifier
	picker   Picker
	blobs    BlobStore
	metrics  domain.Metrics
	seed     func() []domain.Tool
	now      func() time.Time
	newID    func(now time.Time) string

	mu               sync.Mutex
	tools            []domain.Tool
	blobURLs         map[string]string
	currentID        string
	pendingReplaceID string
}

func New(store KV, opts Options) *Registry {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{
		store:    store,
		logger:   logger.Named("registry"),
		surface:  opts.Surface,
		notifier: opts.Notifier,
		picker:   opts.Picker,
		blobs:    opts.Blobs,
		metrics:  opts.Metrics,
		seed:     opts.Seed,
		now:      opts.Now,
		newID:    opts.NewID,
		blobURLs: make(map[string]string),
	}
	if r.surface == nil {
		r.surface = noopSurface{}
	}
	if r.notifier == nil {
		r.notifier = noopNotifier{}
	}
	if r.picker == nil {
		r.picker = noopPicker{}
	}
	if r.blobs == nil {
		r.blobs = noopBlobs{}
	}
	if r.metrics == nil {
		r.metrics = domain.NoopMetrics{}
	}
	if r.seed == nil {
		r.seed = DefaultSeed
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.newID == nil {
		r.newID = generateID
	}
	return r
}

func generateID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:5]
	return fmt.Sprintf("tool_%d_%s", now.UnixMilli(), suffix)
}

// Load reads the persisted catalog. An absent or corrupt value is replaced by the seed.
// When the store itself cannot be read the in-memory catalog is left untouched.
func (r *Registry) Load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, ok, err := r.store.Get(domain.RegistryKey)
	if err != nil {
		r.logger.Error("failed to read tool registry", telemetry.StoreKeyField(domain.RegistryKey), zap.Error(err))
		r.notifier.Status(domain.StatusError, "Could not load tools")
		r.metrics.ObserveRegistryOperation("load", domain.OperationError)
		return domain.Wrap(domain.CodeUnavailable, "load registry", err)
	}

	var tools []domain.Tool
	seeded := false
	if !ok {
		tools = r.seed()
		seeded = true
		r.logger.Info("seeding tool registry", telemetry.EventField(telemetry.EventRegistrySeeded))
	} else {
		decoded, decodeErr := decodeTools(raw)
		if decodeErr != nil {
			r.logger.Warn("persisted tool registry is corrupt, restoring defaults", zap.Error(decodeErr))
			r.notifier.Status(domain.StatusError, "Saved tools were unreadable, defaults restored")
			tools = r.seed()
			seeded = true
		} else {
			tools = decoded
		}
	}

	r.mu.Lock()
	for _, url := range r.blobURLs {
		r.blobs.Revoke(url)
	}
	r.blobURLs = make(map[string]string)
	r.tools = r.normalize(tools)
	r.currentID = ""
	r.pendingReplaceID = ""
	var saveErr error
	if seeded {
		saveErr = r.saveLocked()
	}
	snapshot := cloneTools(r.tools)
	stats := statsOf(r.tools)
	r.mu.Unlock()

	r.metrics.SetRegistryTools(stats)
	r.surface.RenderCatalog(snapshot)
	if saveErr != nil {
		r.reportSaveError("load", saveErr)
		return saveErr
	}
	r.metrics.ObserveRegistryOperation("load", domain.OperationSuccess)
	return nil
}

// normalize re-encodes user tools whose content URL does not survive a restart.
func (r *Registry) normalize(tools []domain.Tool) []domain.Tool {
	for i := range tools {
		tool := &tools[i]
		if tool.IsDefault || tool.Content == "" {
			continue
		}
		if !strings.HasPrefix(tool.ContentURL, dataURLPrefix) {
			tool.ContentURL = encodeDataURL(RelaxCSP(tool.Content))
		}
	}
	return tools
}

// Save persists the full catalog.
func (r *Registry) Save(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	err := r.saveLocked()
	r.mu.Unlock()
	if err != nil {
		r.reportSaveError("save", err)
		return err
	}
	return nil
}

func (r *Registry) saveLocked() error {
	value, err := encodeTools(r.tools)
	if err != nil {
		return domain.Wrap(domain.CodeInternal, "save registry", err)
	}
	if err := r.store.Set(domain.RegistryKey, value); err != nil {
		return domain.Wrap(domain.CodeUnavailable, "save registry", err)
	}
	return nil
}

func (r *Registry) reportSaveError(op string, err error) {
	r.logger.Error("failed to persist tool registry", zap.String("op", op), zap.Error(err))
	r.notifier.Status(domain.StatusError, "Could not save tools")
	r.metrics.ObserveRegistryOperation(op, domain.OperationError)
}

// AddTool validates an uploaded HTML file and appends it as a user tool.
func (r *Registry) AddTool(ctx context.Context, input domain.FileInput) (domain.Tool, error) {
	prep, err := prepareFile(ctx, input)
	if err != nil {
		r.rejectFile("add", input, err)
		return domain.Tool{}, err
	}

	now := r.now()
	r.mu.Lock()
	tool := domain.Tool{
		ID:          r.uniqueIDLocked(now),
		Name:        prep.name,
		Icon:        domain.DefaultCustomToolIcon,
		Description: domain.DefaultCustomToolDescription,
		Path:        prep.path,
		IsDefault:   false,
		ContentURL:  prep.contentURL,
		Content:     prep.content,
		DateAdded:   now.UTC().Format(time.RFC3339),
	}
	r.tools = append(r.tools, tool)
	if err := r.saveLocked(); err != nil {
		r.tools = r.tools[:len(r.tools)-1]
		r.mu.Unlock()
		r.reportSaveError("add", err)
		return domain.Tool{}, err
	}
	if url := r.blobs.Create([]byte(RelaxCSP(prep.content)), domain.HTMLMediaType); url != "" {
		r.blobURLs[tool.ID] = url
	}
	snapshot := cloneTools(r.tools)
	stats := statsOf(r.tools)
	r.mu.Unlock()

	r.logger.Info("tool added",
		telemetry.EventField(telemetry.EventToolAdded),
		telemetry.ToolIDField(tool.ID),
		telemetry.ToolNameField(tool.Name),
	)
	r.metrics.SetRegistryTools(stats)
	r.metrics.ObserveRegistryOperation("add", domain.OperationSuccess)
	r.surface.RenderCatalog(snapshot)
	r.notifier.Status(domain.StatusInfo, fmt.Sprintf("Tool %q added", tool.Name))
	return tool, nil
}

func (r *Registry) rejectFile(op string, input domain.FileInput, err error) {
	if errors.Is(err, domain.ErrUnsupportedMediaType) {
		r.logger.Warn("rejected non-html file", zap.String("op", op), zap.String("file", input.Name), zap.String("media_type", input.MediaType))
		r.notifier.Status(domain.StatusError, "Please choose an HTML file")
	} else {
		r.logger.Error("failed to read tool file", zap.String("op", op), zap.String("file", input.Name), zap.Error(err))
		r.notifier.Status(domain.StatusError, "Could not read the selected file")
	}
	r.metrics.ObserveRegistryOperation(op, domain.OperationError)
}

func (r *Registry) uniqueIDLocked(now time.Time) string {
	var id string
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id = r.newID(now)
		if r.indexLocked(id) < 0 {
			return id
		}
	}
	return fmt.Sprintf("tool_%d_%s", now.UnixMilli(), uuid.NewString())
}

func (r *Registry) indexLocked(id string) int {
	for i, tool := range r.tools {
		if tool.ID == id {
			return i
		}
	}
	return -1
}

func (r *Registry) lookupMutable(op, id string) (domain.Tool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.indexLocked(id)
	if idx < 0 {
		return domain.Tool{}, domain.E(domain.CodeNotFound, op, fmt.Sprintf("tool %q not found", id), domain.ErrToolNotFound)
	}
	tool := r.tools[idx]
	if !tool.Removable() {
		return tool, domain.E(domain.CodeFailedPrecond, op, fmt.Sprintf("tool %q is built in", id), domain.ErrBuiltinTool)
	}
	return tool, nil
}

// RemoveTool removes a user tool after the confirmer approves. A nil confirmer
// means the caller already confirmed. It reports whether the tool was removed.
func (r *Registry) RemoveTool(ctx context.Context, id string, confirmer Confirmer) (bool, error) {
	tool, err := r.lookupMutable("remove tool", id)
	if err != nil {
		r.refuse("remove", err)
		return false, err
	}

	if confirmer != nil {
		ok, err := confirmer.Confirm(ctx, tool)
		if err != nil {
			r.metrics.ObserveRegistryOperation("remove", domain.OperationError)
			return false, domain.Wrap(domain.CodeCanceled, "remove tool", err)
		}
		if !ok {
			r.metrics.ObserveRegistryOperation("remove", domain.OperationSkipped)
			return false, nil
		}
	}

	r.mu.Lock()
	idx := r.indexLocked(id)
	if idx < 0 {
		r.mu.Unlock()
		return false, domain.E(domain.CodeNotFound, "remove tool", fmt.Sprintf("tool %q not found", id), domain.ErrToolNotFound)
	}
	previous := cloneTools(r.tools)
	r.tools = append(r.tools[:idx], r.tools[idx+1:]...)
	if err := r.saveLocked(); err != nil {
		r.tools = previous
		r.mu.Unlock()
		r.reportSaveError("remove", err)
		return false, err
	}
	if url, ok := r.blobURLs[id]; ok {
		r.blobs.Revoke(url)
		delete(r.blobURLs, id)
	}
	wasCurrent := r.currentID == id
	if wasCurrent {
		r.currentID = ""
	}
	if r.pendingReplaceID == id {
		r.pendingReplaceID = ""
	}
	snapshot := cloneTools(r.tools)
	stats := statsOf(r.tools)
	r.mu.Unlock()

	r.logger.Info("tool removed", telemetry.EventField(telemetry.EventToolRemoved), telemetry.ToolIDField(id))
	r.metrics.SetRegistryTools(stats)
	r.metrics.ObserveRegistryOperation("remove", domain.OperationSuccess)
	if wasCurrent {
		r.surface.ShowCatalog()
	}
	r.surface.RenderCatalog(snapshot)
	r.notifier.Status(domain.StatusInfo, "Tool removed")
	return true, nil
}

func (r *Registry) refuse(op string, err error) {
	switch {
	case errors.Is(err, domain.ErrBuiltinTool):
		r.notifier.Status(domain.StatusError, "Built-in tools cannot be changed")
	case errors.Is(err, domain.ErrToolNotFound):
		r.notifier.Status(domain.StatusError, "Tool not found")
	}
	r.logger.Warn("registry operation refused", zap.String("op", op), zap.Error(err))
	r.metrics.ObserveRegistryOperation(op, domain.OperationError)
}

// ReplaceTool marks a user tool as the pending replacement target and starts a file selection.
func (r *Registry) ReplaceTool(id string) error {
	if _, err := r.lookupMutable("replace tool", id); err != nil {
		r.refuse("replace", err)
		return err
	}
	r.mu.Lock()
	r.pendingReplaceID = id
	r.mu.Unlock()
	r.picker.RequestFile(domain.FilePurposeReplace, id)
	return nil
}

// PendingReplace returns the id awaiting a replacement file, if any.
func (r *Registry) PendingReplace() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pendingReplaceID, r.pendingReplaceID != ""
}

// CancelReplace drops the pending replacement target.
func (r *Registry) CancelReplace() {
	r.mu.Lock()
	r.pendingReplaceID = ""
	r.mu.Unlock()
}

// DoReplaceTool applies a file to the pending replacement target in place.
// The pending target is cleared whatever the outcome.
func (r *Registry) DoReplaceTool(ctx context.Context, input domain.FileInput) (domain.Tool, error) {
	r.mu.Lock()
	id := r.pendingReplaceID
	r.pendingReplaceID = ""
	r.mu.Unlock()
	if id == "" {
		err := domain.E(domain.CodeFailedPrecond, "replace tool", "", domain.ErrNoPendingReplace)
		r.notifier.Status(domain.StatusError, "No tool selected for replacement")
		r.metrics.ObserveRegistryOperation("replace", domain.OperationError)
		return domain.Tool{}, err
	}

	prep, err := prepareFile(ctx, input)
	if err != nil {
		r.rejectFile("replace", input, err)
		return domain.Tool{}, err
	}

	r.mu.Lock()
	idx := r.indexLocked(id)
	if idx < 0 {
		r.mu.Unlock()
		err := domain.E(domain.CodeNotFound, "replace tool", fmt.Sprintf("tool %q not found", id), domain.ErrToolNotFound)
		r.refuse("replace", err)
		return domain.Tool{}, err
	}
	previous := r.tools[idx]
	updated := previous
	updated.Name = prep.name
	updated.Path = prep.path
	updated.Content = prep.content
	updated.ContentURL = prep.contentURL
	updated.DateUpdated = r.now().UTC().Format(time.RFC3339)
	r.tools[idx] = updated
	if err := r.saveLocked(); err != nil {
		r.tools[idx] = previous
		r.mu.Unlock()
		r.reportSaveError("replace", err)
		return domain.Tool{}, err
	}
	if url, ok := r.blobURLs[id]; ok {
		r.blobs.Revoke(url)
		delete(r.blobURLs, id)
	}
	if url := r.blobs.Create([]byte(RelaxCSP(prep.content)), domain.HTMLMediaType); url != "" {
		r.blobURLs[id] = url
	}
	var view domain.ToolView
	isCurrent := r.currentID == id
	if isCurrent {
		view = r.viewLocked(updated)
	}
	snapshot := cloneTools(r.tools)
	r.mu.Unlock()

	r.logger.Info("tool replaced",
		telemetry.EventField(telemetry.EventToolReplaced),
		telemetry.ToolIDField(id),
		telemetry.ToolNameField(updated.Name),
	)
	r.metrics.ObserveRegistryOperation("replace", domain.OperationSuccess)
	r.surface.RenderCatalog(snapshot)
	if isCurrent {
		r.surface.ShowTool(view)
	}
	r.notifier.Status(domain.StatusInfo, fmt.Sprintf("Tool %q updated", updated.Name))
	return updated, nil
}

// SelectTool shows a tool on the display surface and marks it current.
func (r *Registry) SelectTool(id string) (domain.ToolView, error) {
	r.mu.Lock()
	idx := r.indexLocked(id)
	if idx < 0 {
		r.mu.Unlock()
		err := domain.E(domain.CodeNotFound, "select tool", fmt.Sprintf("tool %q not found", id), domain.ErrToolNotFound)
		r.notifier.Status(domain.StatusError, "Tool not found")
		return domain.ToolView{}, err
	}
	view := r.viewLocked(r.tools[idx])
	r.currentID = id
	r.mu.Unlock()

	r.logger.Debug("tool selected", telemetry.EventField(telemetry.EventToolSelected), telemetry.ToolIDField(id))
	r.surface.ShowTool(view)
	return view, nil
}

// viewLocked resolves the display source: built-ins load their resource path, user
// tools prefer a blob handle, then the data URL, then the original path.
func (r *Registry) viewLocked(tool domain.Tool) domain.ToolView {
	view := domain.ToolView{ToolID: tool.ID, Title: tool.Name}
	if tool.IsDefault {
		view.Source = tool.Path
		view.Builtin = true
		return view
	}
	url := r.blobURLs[tool.ID]
	if url == "" && tool.Content != "" {
		url = r.blobs.Create([]byte(RelaxCSP(tool.Content)), domain.HTMLMediaType)
		if url != "" {
			r.blobURLs[tool.ID] = url
		}
	}
	switch {
	case url != "":
		view.Source = url
	case tool.ContentURL != "":
		view.Source = tool.ContentURL
	default:
		view.Source = tool.Path
	}
	return view
}

// DeselectTool returns to the catalog.
func (r *Registry) DeselectTool() {
	r.mu.Lock()
	r.currentID = ""
	r.mu.Unlock()
	r.surface.ShowCatalog()
}

// HandleBack reacts to a back-navigation signal. It reports whether a tool was closed.
func (r *Registry) HandleBack() bool {
	r.mu.Lock()
	selected := r.currentID != ""
	r.mu.Unlock()
	if !selected {
		return false
	}
	r.DeselectTool()
	return true
}

// Current returns the selected tool.
func (r *Registry) Current() (domain.Tool, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.currentID == "" {
		return domain.Tool{}, false
	}
	idx := r.indexLocked(r.currentID)
	if idx < 0 {
		return domain.Tool{}, false
	}
	return r.tools[idx], true
}

// Tools returns a copy of the catalog in display order.
func (r *Registry) Tools() []domain.Tool {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := cloneTools(r.tools)
	if out == nil {
		return []domain.Tool{}
	}
	return out
}

func (r *Registry) Get(id string) (domain.Tool, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.indexLocked(id)
	if idx < 0 {
		return domain.Tool{}, false
	}
	return r.tools[idx], true
}

func (r *Registry) Stats() domain.ToolStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return statsOf(r.tools)
}

func statsOf(tools []domain.Tool) domain.ToolStats {
	stats := domain.ToolStats{Total: len(tools)}
	for _, tool := range tools {
		if tool.IsDefault {
			stats.Default++
		} else {
			stats.Custom++
		}
	}
	return stats
}
