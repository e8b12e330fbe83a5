package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/soloviev-vladislav/telegram-userbot-api/internal/core"
	"github.com/soloviev-vladislav/telegram-userbot-api/internal/data"
	"github.com/soloviev-vladislav/telegram-userbot-api/internal/domain/model"
	"github.com/soloviev-vladislav/telegram-userbot-api/internal/domain/phone"
	apperrors "github.com/soloviev-vladislav/telegram-userbot-api/internal/errors"
	"github.com/soloviev-vladislav/telegram-userbot-api/internal/observability/notify"
	"github.com/soloviev-vladislav/telegram-userbot-api/internal/service/failurenotifier"
)

// LookupTuning holds the timing and cadence knobs of the batch engine.
// Zero values are replaced with defaults by NewLookupService.
type LookupTuning struct {
	// SettleInterval is the wait between importing a contact and reading the
	// contact list back, giving the platform time to synchronize.
	SettleInterval time.Duration
	// ItemDelay is the default inter-item throttle when the submission does
	// not specify one.
	ItemDelay time.Duration
	// ProgressEvery is the item cadence of progress notifications.
	ProgressEvery int
	// ProgressTimeout bounds started/progress webhook deliveries.
	ProgressTimeout time.Duration
	// FinalTimeout bounds the final webhook delivery, which carries the full
	// result sequence and may be large.
	FinalTimeout time.Duration
}

func (t LookupTuning) withDefaults() LookupTuning {
	if t.SettleInterval <= 0 {
		t.SettleInterval = 2 * time.Second
	}
	if t.ItemDelay <= 0 {
		t.ItemDelay = 500 * time.Millisecond
	}
	if t.ProgressEvery <= 0 {
		t.ProgressEvery = 5
	}
	if t.ProgressTimeout <= 0 {
		t.ProgressTimeout = 12 * time.Second
	}
	if t.FinalTimeout <= 0 {
		t.FinalTimeout = 30 * time.Second
	}
	return t
}

// LookupServiceOptions groups dependencies for LookupService.
type LookupServiceOptions struct {
	Registry  core.TaskRegistry         // Required: task state store
	Accounts  *AccountService           // Required: live session registry
	Sink      notify.Sink               // Required: webhook delivery
	Failures  *failurenotifier.Service  // Optional: ops alerting for task-level failures
	Clock     core.Clock                // Optional: defaults to real time
	Evaluator JMESPathEvaluator         // Optional: defaults to go-jmespath
	Logger    *slog.Logger              // Optional: structured logger
	Tuning    LookupTuning              // Optional: zero fields take defaults
}

// LookupService runs batch phone lookups against attached userbot sessions.
//
// Each submitted batch runs on its own goroutine, strictly sequential within
// the batch. Task state lives in the registry; the engine publishes every
// mutation through it and never keeps a private copy that could diverge from
// what status readers see.
type LookupService struct {
	registry core.TaskRegistry
	accounts *AccountService
	sink     notify.Sink
	failures *failurenotifier.Service
	clock    core.Clock
	jems     JMESPathEvaluator
	logger   *slog.Logger
	tuning   LookupTuning

	wg sync.WaitGroup
}

// NewLookupService constructs a new LookupService.
func NewLookupService(opts LookupServiceOptions) (*LookupService, error) {
	if opts.Registry == nil {
		return nil, errors.New("TaskRegistry is required")
	}
	if opts.Accounts == nil {
		return nil, errors.New("AccountService is required")
	}
	if opts.Sink == nil {
		return nil, errors.New("notification Sink is required")
	}

	clock := opts.Clock
	if clock == nil {
		clock = data.RealClock{}
	}
	jems := opts.Evaluator
	if jems == nil {
		jems = jmespathLibEvaluator{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &LookupService{
		registry: opts.Registry,
		accounts: opts.Accounts,
		sink:     opts.Sink,
		failures: opts.Failures,
		clock:    clock,
		jems:     jems,
		logger:   logger.With("component", "lookup_service"),
		tuning:   opts.Tuning.withDefaults(),
	}, nil
}

// MustNewLookupService constructs a new LookupService and panics on error.
func MustNewLookupService(opts LookupServiceOptions) *LookupService {
	svc, err := NewLookupService(opts)
	if err != nil {
		panic(fmt.Sprintf("failed to create LookupService: %v", err))
	}
	return svc
}

// Submit validates the request, registers the task and launches the batch
// goroutine. It returns as soon as the task is accepted.
func (s *LookupService) Submit(ctx context.Context, req *model.SubmitLookupRequest) (*model.SubmitLookupResponse, error) {
	if req == nil {
		return nil, apperrors.Validation("submit lookup request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid lookup request")
	}
	if err := s.jems.Validate(req.ResultsFilter); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid results_filter")
	}
	if _, err := s.accounts.Resolve(req.Account); err != nil {
		return nil, apperrors.Preconditionf("account %s not found", req.Account)
	}

	taskID := req.TaskID
	if taskID == "" {
		taskID = model.NewTaskID(s.clock.Now(), req.Phones)
	}

	task := &model.Task{
		ID:      taskID,
		Account: req.Account,
		Status:  model.TaskStatusPending,
		Total:   len(req.Phones),
		Results: make([]model.LookupResult, 0, len(req.Phones)),
	}
	if err := s.registry.Create(task); err != nil {
		if errors.Is(err, data.ErrTaskExists) {
			return nil, apperrors.Conflictf("task %s is already running", taskID)
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "register task")
	}

	itemDelay := s.tuning.ItemDelay
	if req.DelayBetweenItemsMS > 0 {
		itemDelay = time.Duration(req.DelayBetweenItemsMS) * time.Millisecond
	}

	run := batchRun{
		taskID:     taskID,
		account:    req.Account,
		phones:     req.Phones,
		webhookURL: req.WebhookURL,
		filter:     req.ResultsFilter,
		itemDelay:  itemDelay,
	}

	// The run must outlive the submitting HTTP request.
	runCtx := context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(runCtx, run)
	}()

	s.logger.InfoContext(ctx, "lookup task accepted",
		"task_id", taskID,
		"account", req.Account,
		"total_phones", len(req.Phones),
	)

	return &model.SubmitLookupResponse{
		Status:         "search_started",
		TaskID:         taskID,
		Account:        req.Account,
		TotalPhones:    len(req.Phones),
		WebhookURL:     req.WebhookURL,
		CheckStatusURL: "/api/search/status/" + taskID,
	}, nil
}

// Status returns a snapshot of the task.
func (s *LookupService) Status(id string) (*model.Task, error) {
	task, err := s.registry.Get(id)
	if err != nil {
		if errors.Is(err, data.ErrTaskNotFound) {
			return nil, apperrors.NotFoundf("task %s not found", id)
		}
		return nil, err
	}
	return task, nil
}

// Results returns the result sequence of a finished task. A task that is
// still pending or processing yields a conflict so callers can poll again.
func (s *LookupService) Results(id string) (*model.TaskResultsResponse, error) {
	task, err := s.Status(id)
	if err != nil {
		return nil, err
	}
	if !task.Status.Terminal() {
		return nil, apperrors.Conflictf("task %s is still %s", id, task.Status)
	}
	return &model.TaskResultsResponse{
		TaskID:         task.ID,
		Status:         task.Status,
		TotalProcessed: task.Processed,
		TotalFound:     task.Found,
		Results:        task.Results,
	}, nil
}

// Wait blocks until all in-flight batch goroutines have finished. Used during
// graceful shutdown.
func (s *LookupService) Wait() {
	s.wg.Wait()
}

type batchRun struct {
	taskID     string
	account    string
	phones     []string
	webhookURL string
	filter     string
	itemDelay  time.Duration
}

func (s *LookupService) run(ctx context.Context, run batchRun) {
	handle, err := s.accounts.Resolve(run.account)
	if err != nil {
		s.failTask(ctx, run, fmt.Sprintf("account %s not found", run.account))
		return
	}

	if err := handle.Acquire(ctx); err != nil {
		s.failTask(ctx, run, fmt.Sprintf("acquire account %s: %v", run.account, err))
		return
	}
	defer handle.Release()

	startedAt := s.clock.Now()
	if uerr := s.registry.Update(run.taskID, func(t *model.Task) {
		t.Status = model.TaskStatusProcessing
		t.StartedAt = &startedAt
	}); uerr != nil {
		s.logger.ErrorContext(ctx, "mark task processing", "task_id", run.taskID, "error", uerr)
		return
	}

	s.deliver(ctx, run.webhookURL, s.tuning.ProgressTimeout, notify.StartedPayload{
		TaskID:      run.taskID,
		Status:      notify.StatusStarted,
		Account:     run.account,
		TotalPhones: len(run.phones),
		Timestamp:   s.clock.Now(),
	})

	total := len(run.phones)
	for i, raw := range run.phones {
		result, wait := s.lookupOne(ctx, handle.Session, raw)

		var snapshot model.Task
		if uerr := s.registry.Update(run.taskID, func(t *model.Task) {
			t.Results = append(t.Results, result)
			t.Processed++
			switch result.Status {
			case model.LookupFound:
				t.Found++
			case model.LookupNotFound:
				t.NotFound++
			case model.LookupError:
				t.Errors++
			}
			snapshot = *t.Clone()
		}); uerr != nil {
			s.logger.ErrorContext(ctx, "record lookup result", "task_id", run.taskID, "error", uerr)
			return
		}

		if wait > 0 {
			s.logger.WarnContext(ctx, "flood wait, suspending batch",
				"task_id", run.taskID,
				"account", run.account,
				"wait", wait,
			)
			if serr := s.clock.Sleep(ctx, wait); serr != nil {
				s.logger.WarnContext(ctx, "flood wait interrupted", "task_id", run.taskID, "error", serr)
			}
		}

		processed := i + 1
		if processed%s.tuning.ProgressEvery == 0 || processed == total {
			s.deliver(ctx, run.webhookURL, s.tuning.ProgressTimeout, notify.ProgressPayload{
				TaskID:          run.taskID,
				Status:          notify.StatusProgress,
				Account:         run.account,
				Processed:       snapshot.Processed,
				Total:           snapshot.Total,
				Found:           snapshot.Found,
				NotFound:        snapshot.NotFound,
				Errors:          snapshot.Errors,
				ProgressPercent: progressPercent(snapshot.Processed, snapshot.Total),
				Timestamp:       s.clock.Now(),
			})
		}

		if processed < total {
			if serr := s.clock.Sleep(ctx, run.itemDelay); serr != nil {
				s.logger.WarnContext(ctx, "item throttle interrupted", "task_id", run.taskID, "error", serr)
			}
		}
	}

	completedAt := s.clock.Now()
	var final model.Task
	if uerr := s.registry.Update(run.taskID, func(t *model.Task) {
		t.Status = model.TaskStatusCompleted
		t.CompletedAt = &completedAt
		final = *t.Clone()
	}); uerr != nil {
		s.logger.ErrorContext(ctx, "mark task completed", "task_id", run.taskID, "error", uerr)
		return
	}

	s.logger.InfoContext(ctx, "lookup task completed",
		"task_id", run.taskID,
		"account", run.account,
		"processed", final.Processed,
		"found", final.Found,
		"not_found", final.NotFound,
		"errors", final.Errors,
	)

	results, ferr := filterResults(s.jems, run.filter, final.Results)
	if ferr != nil {
		// The expression compiled at submit time; an evaluation error means it
		// does not fit the data shape. Fall back to the unfiltered sequence.
		s.logger.WarnContext(ctx, "results filter evaluation failed",
			"task_id", run.taskID, "error", ferr)
		results = final.Results
	}

	s.deliver(ctx, run.webhookURL, s.tuning.FinalTimeout, notify.FinalPayload{
		TaskID:      run.taskID,
		Status:      notify.StatusCompleted,
		Account:     run.account,
		TotalPhones: final.Total,
		Processed:   final.Processed,
		Found:       final.Found,
		NotFound:    final.NotFound,
		Errors:      final.Errors,
		Results:     results,
		StartedAt:   final.StartedAt,
		CompletedAt: final.CompletedAt,
		Timestamp:   s.clock.Now(),
	})
}

// lookupOne resolves a single phone number via the transient-contact protocol.
// A non-zero wait means the platform demanded a cooldown the caller must honor
// before the next item.
func (s *LookupService) lookupOne(ctx context.Context, session core.ClientSession, raw string) (model.LookupResult, time.Duration) {
	formatted := phone.Normalize(raw)
	result := model.LookupResult{
		Phone:          raw,
		FormattedPhone: formatted,
		Status:         model.LookupNotFound,
		Timestamp:      s.clock.Now(),
	}

	// The tag rides in the last name so the imported entry can be told apart
	// from pre-existing contacts when the list is read back.
	tag := uuid.NewString()

	contactID, err := session.ImportContact(ctx, core.ContactImport{
		Phone:     formatted,
		FirstName: "lookup",
		LastName:  tag,
	})
	if err != nil {
		return s.classifyError(result, err)
	}

	if serr := s.clock.Sleep(ctx, s.tuning.SettleInterval); serr != nil {
		s.deleteContact(ctx, session, contactID)
		return s.classifyError(result, serr)
	}

	contacts, err := session.ListContacts(ctx)
	if err != nil {
		s.deleteContact(ctx, session, contactID)
		return s.classifyError(result, err)
	}

	deleteID := contactID
	for _, c := range contacts {
		if c.LastName != tag {
			continue
		}
		if c.ContactID != 0 {
			deleteID = c.ContactID
		}
		if identity, ok := c.Identity(); ok {
			result.Found = true
			result.Status = model.LookupFound
			result.TelegramID = &identity.TelegramID
			if identity.Username != "" {
				result.Username = &identity.Username
			}
			if identity.FirstName != "" {
				result.FirstName = &identity.FirstName
			}
			// Platforms that report the saved contact name would echo the tag
			// back as the last name; that is ours, not the user's.
			if identity.LastName != "" && identity.LastName != tag {
				result.LastName = &identity.LastName
			}
		}
		break
	}

	s.deleteContact(ctx, session, deleteID)
	return result, 0
}

// classifyError turns a session error into an error result, extracting the
// mandated cooldown when the platform signalled a flood wait.
func (s *LookupService) classifyError(result model.LookupResult, err error) (model.LookupResult, time.Duration) {
	result.Found = false
	result.Status = model.LookupError

	var flood *model.FloodWaitError
	if errors.As(err, &flood) {
		msg := fmt.Sprintf("Flood wait: %d seconds", int(flood.RetryAfter.Seconds()))
		result.Error = &msg
		return result, flood.RetryAfter
	}

	msg := err.Error()
	result.Error = &msg
	return result, 0
}

// deleteContact removes a transient contact, swallowing any failure: a
// leftover entry pollutes the contact list but never changes a result.
func (s *LookupService) deleteContact(ctx context.Context, session core.ClientSession, contactID int64) {
	if contactID == 0 {
		return
	}
	if err := session.DeleteContact(ctx, contactID); err != nil {
		s.logger.WarnContext(ctx, "delete transient contact failed",
			"contact_id", contactID, "error", err)
	}
}

// failTask is the precondition failure path: no item processing has happened,
// the task goes terminal with a descriptive message, one error webhook is
// sent, and the operational failure sinks are notified.
func (s *LookupService) failTask(ctx context.Context, run batchRun, message string) {
	now := s.clock.Now()
	if uerr := s.registry.Update(run.taskID, func(t *model.Task) {
		t.Status = model.TaskStatusError
		t.Error = &message
		t.CompletedAt = &now
	}); uerr != nil {
		s.logger.ErrorContext(ctx, "mark task failed", "task_id", run.taskID, "error", uerr)
	}

	s.logger.ErrorContext(ctx, "lookup task failed",
		"task_id", run.taskID,
		"account", run.account,
		"error", message,
	)

	s.deliver(ctx, run.webhookURL, s.tuning.FinalTimeout, notify.FinalPayload{
		TaskID:      run.taskID,
		Status:      notify.StatusError,
		Account:     run.account,
		TotalPhones: len(run.phones),
		Error:       message,
		Results:     []model.LookupResult{},
		CompletedAt: &now,
		Timestamp:   now,
	})

	if s.failures != nil && s.failures.Enabled() {
		s.failures.NotifyTaskFailure(ctx, notify.TaskFailurePayload{
			TaskID:      run.taskID,
			Account:     run.account,
			TotalPhones: len(run.phones),
			Error:       message,
			OccurredAt:  now,
		})
	}
}

// deliver posts a payload to the webhook URL with a bounded timeout. Delivery
// failures are logged and dropped; notifications never affect task state.
func (s *LookupService) deliver(ctx context.Context, url string, timeout time.Duration, payload any) {
	if url == "" {
		return
	}
	dctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := s.sink.Deliver(dctx, url, payload); err != nil {
		s.logger.WarnContext(ctx, "webhook delivery failed", "url", url, "error", err)
	}
}

func progressPercent(processed, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(processed)/float64(total)*1000) / 10
}
