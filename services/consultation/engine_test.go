package consultation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	consultationRepo "consultly/database/repository/consultation"
	slotRepo "consultly/database/repository/slot"
	"consultly/models"
	"consultly/services/broadcast"
	"consultly/utils"
)

// fakeSlotRepo is an in-memory SlotRepository that mirrors the conditional
// semantics of the mongo implementation, including Reserve's single
// compare-and-swap.
type fakeSlotRepo struct {
	mu    sync.Mutex
	slots map[string]*models.Slot
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{slots: make(map[string]*models.Slot)}
}

func (f *fakeSlotRepo) Create(_ context.Context, slot *models.Slot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *slot
	f.slots[slot.ID] = &cp
	return nil
}

func (f *fakeSlotRepo) GetByID(_ context.Context, slotID string) (*models.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	slot, ok := f.slots[slotID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *slot
	return &cp, nil
}

func (f *fakeSlotRepo) ListByAdvisor(_ context.Context, advisorID string) ([]models.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Slot
	for _, slot := range f.slots {
		if slot.AdvisorID == advisorID {
			out = append(out, *slot)
		}
	}
	return out, nil
}

func (f *fakeSlotRepo) ListAvailableByAdvisor(_ context.Context, advisorID string) ([]models.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Slot
	for _, slot := range f.slots {
		if slot.AdvisorID == advisorID && !slot.IsBooked && slot.StartTime.After(time.Now()) {
			out = append(out, *slot)
		}
	}
	return out, nil
}

func (f *fakeSlotRepo) DeleteUnbooked(_ context.Context, advisorID, slotID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	slot, ok := f.slots[slotID]
	if !ok || slot.AdvisorID != advisorID || slot.IsBooked {
		return mongo.ErrNoDocuments
	}
	delete(f.slots, slotID)
	return nil
}

func (f *fakeSlotRepo) Reserve(_ context.Context, slotID, advisorID string) (*models.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	slot, ok := f.slots[slotID]
	if !ok || slot.AdvisorID != advisorID || slot.IsBooked || !slot.StartTime.After(time.Now()) {
		return nil, slotRepo.ErrSlotUnavailable
	}
	slot.IsBooked = true
	cp := *slot
	return &cp, nil
}

func (f *fakeSlotRepo) Release(_ context.Context, slotID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if slot, ok := f.slots[slotID]; ok {
		slot.IsBooked = false
	}
	return nil
}

// fakeConsultationRepo keeps consultations in memory and performs the same
// duplicate and status checks the transactional mongo repo does.
type fakeConsultationRepo struct {
	mu            sync.Mutex
	consultations map[string]*models.Consultation
	messages      []*models.Message
	slots         *fakeSlotRepo
}

func newFakeConsultationRepo(slots *fakeSlotRepo) *fakeConsultationRepo {
	return &fakeConsultationRepo{
		consultations: make(map[string]*models.Consultation),
		slots:         slots,
	}
}

func (f *fakeConsultationRepo) GetByID(_ context.Context, id string) (*models.Consultation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.consultations[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *c
	return &cp, nil
}

func (f *fakeConsultationRepo) ListBySeeker(_ context.Context, seekerID string) ([]models.ConsultationSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ConsultationSnapshot
	for _, c := range f.consultations {
		if c.SeekerID == seekerID {
			out = append(out, models.ConsultationSnapshot{Consultation: *c})
		}
	}
	return out, nil
}

func (f *fakeConsultationRepo) ListByAdvisor(_ context.Context, advisorID string) ([]models.ConsultationSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ConsultationSnapshot
	for _, c := range f.consultations {
		if c.AdvisorID == advisorID {
			out = append(out, models.ConsultationSnapshot{Consultation: *c})
		}
	}
	return out, nil
}

func (f *fakeConsultationRepo) ListAll(_ context.Context) ([]models.Consultation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Consultation
	for _, c := range f.consultations {
		out = append(out, *c)
	}
	return out, nil
}

// BookTransactionally holds the lock across the duplicate check and the
// insert, matching the atomicity the unique partial pair index gives the
// mongo implementation.
func (f *fakeConsultationRepo) BookTransactionally(ctx context.Context, consultation *models.Consultation, opening *models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.consultations {
		if existing.SeekerID == consultation.SeekerID &&
			existing.AdvisorID == consultation.AdvisorID &&
			!existing.Status.Terminal() {
			return consultationRepo.ErrDuplicateActive
		}
	}

	if _, err := f.slots.Reserve(ctx, consultation.SlotID, consultation.AdvisorID); err != nil {
		return err
	}

	cp := *consultation
	f.consultations[consultation.ID] = &cp
	if opening != nil {
		msgCp := *opening
		f.messages = append(f.messages, &msgCp)
	}
	return nil
}

func (f *fakeConsultationRepo) TransitionTransactionally(ctx context.Context, id string, from, to models.ConsultationStatus, set map[string]interface{}) (*models.Consultation, error) {
	f.mu.Lock()
	c, ok := f.consultations[id]
	if !ok || c.Status != from {
		f.mu.Unlock()
		return nil, consultationRepo.ErrStatusConflict
	}
	c.Status = to
	c.UpdatedAt = time.Now().UTC()
	for key, val := range set {
		switch key {
		case "meetingLink":
			c.MeetingLink = val.(string)
		case "cancelReason":
			c.CancelReason = val.(string)
		case "cancelledAt":
			at := val.(time.Time)
			c.CancelledAt = &at
		}
	}
	cp := *c
	f.mu.Unlock()

	if to.Terminal() {
		_ = f.slots.Release(ctx, cp.SlotID)
	}
	return &cp, nil
}

func (f *fakeConsultationRepo) UpdateReview(_ context.Context, id string, rating int, review string) (*models.Consultation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.consultations[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	c.Rating = rating
	c.Review = review
	cp := *c
	return &cp, nil
}

func (f *fakeConsultationRepo) SetLastMessageAt(_ context.Context, id string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.consultations[id]; ok {
		c.LastMessageAt = &at
	}
	return nil
}

// fakeNotificationSvc records which hooks fired.
type fakeNotificationSvc struct {
	mu          sync.Mutex
	bookings    []string
	transitions []string
	reminders   []string
}

func (f *fakeNotificationSvc) OnBooking(_ context.Context, c *models.Consultation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bookings = append(f.bookings, c.ID)
}

func (f *fakeNotificationSvc) OnTransition(_ context.Context, c *models.Consultation, _, to models.ConsultationStatus, _ models.Identity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transitions = append(f.transitions, c.ID+":"+string(to))
}

func (f *fakeNotificationSvc) OnReminder(_ context.Context, c *models.Consultation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reminders = append(f.reminders, c.ID)
}

func (f *fakeNotificationSvc) List(_ context.Context, _ models.Identity) ([]models.Notification, error) {
	return nil, nil
}

func (f *fakeNotificationSvc) MarkAllRead(_ context.Context, _ models.Identity) (int64, error) {
	return 0, nil
}

type nopPublisher struct{}

func (nopPublisher) Publish(models.Identity, interface{}) {}

func newTestEngine() (*DefaultConsultationService, *fakeConsultationRepo, *fakeSlotRepo, *fakeNotificationSvc) {
	slots := newFakeSlotRepo()
	repo := newFakeConsultationRepo(slots)
	notif := &fakeNotificationSvc{}
	svc := &DefaultConsultationService{
		Repo:            repo,
		Slots:           slots,
		NotificationSvc: notif,
		Logger:          zap.NewNop(),
	}
	svc.Broadcaster = &broadcast.Broadcaster{
		Hub:    nopPublisher{},
		Source: svc,
		Logger: zap.NewNop(),
	}
	return svc, repo, slots, notif
}

func futureSlot(advisorID string, startIn time.Duration) *models.Slot {
	start := time.Now().UTC().Add(startIn)
	return &models.Slot{
		ID:        uuid.New().String(),
		AdvisorID: advisorID,
		StartTime: start,
		EndTime:   start.Add(30 * time.Minute),
		Duration:  30,
		CreatedAt: time.Now().UTC(),
	}
}

func TestBookCreatesPendingConsultation(t *testing.T) {
	svc, repo, slots, notif := newTestEngine()
	ctx := context.Background()

	slot := futureSlot("advisor-1", 48*time.Hour)
	require.NoError(t, slots.Create(ctx, slot))

	c, err := svc.Book(ctx, "seeker-1", models.BookConsultationRequest{
		AdvisorID: "advisor-1",
		SlotID:    slot.ID,
		Message:   "Hi, I'd like some advice on my pension plan.",
	})
	require.NoError(t, err)

	assert.Equal(t, models.ConsultationPending, c.Status)
	assert.Equal(t, "seeker-1", c.SeekerID)
	assert.Equal(t, "advisor-1", c.AdvisorID)
	assert.NotNil(t, c.LastMessageAt)

	booked, err := slots.GetByID(ctx, slot.ID)
	require.NoError(t, err)
	assert.True(t, booked.IsBooked)

	require.Len(t, repo.messages, 1)
	assert.Equal(t, "seeker-1", repo.messages[0].SenderID)

	assert.Equal(t, []string{c.ID}, notif.bookings)
}

func TestBookUnknownSlot(t *testing.T) {
	svc, _, _, _ := newTestEngine()

	_, err := svc.Book(context.Background(), "seeker-1", models.BookConsultationRequest{
		AdvisorID: "advisor-1",
		SlotID:    "missing",
	})
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestBookSlotOwnedByAnotherAdvisor(t *testing.T) {
	svc, _, slots, _ := newTestEngine()
	ctx := context.Background()

	slot := futureSlot("advisor-2", 48*time.Hour)
	require.NoError(t, slots.Create(ctx, slot))

	_, err := svc.Book(ctx, "seeker-1", models.BookConsultationRequest{
		AdvisorID: "advisor-1",
		SlotID:    slot.ID,
	})

	var svcErr *utils.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, utils.CodeValidationError, svcErr.Code)
}

func TestBookDuplicateActiveConsultation(t *testing.T) {
	svc, _, slots, _ := newTestEngine()
	ctx := context.Background()

	first := futureSlot("advisor-1", 48*time.Hour)
	second := futureSlot("advisor-1", 72*time.Hour)
	require.NoError(t, slots.Create(ctx, first))
	require.NoError(t, slots.Create(ctx, second))

	_, err := svc.Book(ctx, "seeker-1", models.BookConsultationRequest{
		AdvisorID: "advisor-1", SlotID: first.ID,
	})
	require.NoError(t, err)

	_, err = svc.Book(ctx, "seeker-1", models.BookConsultationRequest{
		AdvisorID: "advisor-1", SlotID: second.ID,
	})
	assert.ErrorIs(t, err, ErrDuplicateActive)
}

func TestConcurrentBookingsOneWinner(t *testing.T) {
	svc, _, slots, _ := newTestEngine()
	ctx := context.Background()

	slot := futureSlot("advisor-1", 48*time.Hour)
	require.NoError(t, slots.Create(ctx, slot))

	const seekers = 8
	errs := make(chan error, seekers)
	var wg sync.WaitGroup
	for i := 0; i < seekers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := svc.Book(ctx, "seeker-"+string(rune('a'+n)), models.BookConsultationRequest{
				AdvisorID: "advisor-1",
				SlotID:    slot.ID,
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	var won, lost int
	for err := range errs {
		if err == nil {
			won++
		} else {
			assert.ErrorIs(t, err, ErrSlotUnavailable)
			lost++
		}
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, seekers-1, lost)
}

func TestConcurrentSamePairBookingsOneWinner(t *testing.T) {
	svc, _, slots, _ := newTestEngine()
	ctx := context.Background()

	// One seeker racing itself against the same advisor on distinct slots:
	// the slot reservations cannot collide, so only the pair uniqueness
	// guard stands between this and two PENDING consultations.
	const attempts = 8
	slotIDs := make([]string, attempts)
	for i := range slotIDs {
		slot := futureSlot("advisor-1", time.Duration(48+i)*time.Hour)
		require.NoError(t, slots.Create(ctx, slot))
		slotIDs[i] = slot.ID
	}

	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for _, slotID := range slotIDs {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := svc.Book(ctx, "seeker-1", models.BookConsultationRequest{
				AdvisorID: "advisor-1",
				SlotID:    id,
			})
			errs <- err
		}(slotID)
	}
	wg.Wait()
	close(errs)

	var won, lost int
	for err := range errs {
		if err == nil {
			won++
		} else {
			assert.ErrorIs(t, err, ErrDuplicateActive)
			lost++
		}
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, attempts-1, lost)

	// Every losing slot stays free for other seekers.
	var stillBooked int
	for _, id := range slotIDs {
		slot, err := slots.GetByID(ctx, id)
		require.NoError(t, err)
		if slot.IsBooked {
			stillBooked++
		}
	}
	assert.Equal(t, 1, stillBooked)
}

func TestTransitionTable(t *testing.T) {
	cases := []struct {
		name    string
		from    models.ConsultationStatus
		to      models.ConsultationStatus
		role    models.Role
		allowed bool
	}{
		{"advisor accepts pending", models.ConsultationPending, models.ConsultationActive, models.RoleAdvisor, true},
		{"seeker cannot accept", models.ConsultationPending, models.ConsultationActive, models.RoleSeeker, false},
		{"advisor declines pending", models.ConsultationPending, models.ConsultationCancelled, models.RoleAdvisor, true},
		{"seeker withdraws pending", models.ConsultationPending, models.ConsultationCancelled, models.RoleSeeker, true},
		{"advisor completes active", models.ConsultationActive, models.ConsultationCompleted, models.RoleAdvisor, true},
		{"seeker cannot complete", models.ConsultationActive, models.ConsultationCompleted, models.RoleSeeker, false},
		{"advisor cancels active", models.ConsultationActive, models.ConsultationCancelled, models.RoleAdvisor, true},
		{"seeker cancels active", models.ConsultationActive, models.ConsultationCancelled, models.RoleSeeker, true},
		{"completed is terminal", models.ConsultationCompleted, models.ConsultationActive, models.RoleAdvisor, false},
		{"cancelled is terminal", models.ConsultationCancelled, models.ConsultationActive, models.RoleAdvisor, false},
		{"no skipping to completed", models.ConsultationPending, models.ConsultationCompleted, models.RoleAdvisor, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, repo, slots, _ := newTestEngine()
			ctx := context.Background()

			slot := futureSlot("advisor-1", 30*24*time.Hour)
			require.NoError(t, slots.Create(ctx, slot))

			c := &models.Consultation{
				ID:        uuid.New().String(),
				SeekerID:  "seeker-1",
				AdvisorID: "advisor-1",
				SlotID:    slot.ID,
				Status:    tc.from,
				CreatedAt: time.Now().UTC(),
				UpdatedAt: time.Now().UTC(),
			}
			repo.consultations[c.ID] = c

			actor := models.Identity{Role: tc.role}
			if tc.role == models.RoleSeeker {
				actor.SubjectID = "seeker-1"
			} else {
				actor.SubjectID = "advisor-1"
			}

			updated, err := svc.Transition(ctx, c.ID, actor, models.TransitionConsultationRequest{Status: tc.to})
			if tc.allowed {
				require.NoError(t, err)
				assert.Equal(t, tc.to, updated.Status)
			} else {
				var svcErr *utils.ServiceError
				require.ErrorAs(t, err, &svcErr)
				assert.Equal(t, utils.CodeInvalidTransition, svcErr.Code)
			}
		})
	}
}

func TestTerminalTransitionReleasesSlot(t *testing.T) {
	svc, repo, slots, notif := newTestEngine()
	ctx := context.Background()

	slot := futureSlot("advisor-1", 48*time.Hour)
	slot.IsBooked = true
	require.NoError(t, slots.Create(ctx, slot))

	c := &models.Consultation{
		ID:        uuid.New().String(),
		SeekerID:  "seeker-1",
		AdvisorID: "advisor-1",
		SlotID:    slot.ID,
		Status:    models.ConsultationActive,
	}
	repo.consultations[c.ID] = c

	advisor := models.Identity{SubjectID: "advisor-1", Role: models.RoleAdvisor}
	updated, err := svc.Transition(ctx, c.ID, advisor, models.TransitionConsultationRequest{Status: models.ConsultationCompleted})
	require.NoError(t, err)
	assert.Equal(t, models.ConsultationCompleted, updated.Status)

	released, err := slots.GetByID(ctx, slot.ID)
	require.NoError(t, err)
	assert.False(t, released.IsBooked)

	assert.Equal(t, []string{c.ID + ":COMPLETED"}, notif.transitions)
}

func TestAdvisorAcceptSetsMeetingLink(t *testing.T) {
	svc, repo, slots, _ := newTestEngine()
	ctx := context.Background()

	slot := futureSlot("advisor-1", 48*time.Hour)
	require.NoError(t, slots.Create(ctx, slot))

	c := &models.Consultation{
		ID:        uuid.New().String(),
		SeekerID:  "seeker-1",
		AdvisorID: "advisor-1",
		SlotID:    slot.ID,
		Status:    models.ConsultationPending,
	}
	repo.consultations[c.ID] = c

	advisor := models.Identity{SubjectID: "advisor-1", Role: models.RoleAdvisor}
	updated, err := svc.Transition(ctx, c.ID, advisor, models.TransitionConsultationRequest{
		Status:      models.ConsultationActive,
		MeetingLink: "https://meet.example.com/abc",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://meet.example.com/abc", updated.MeetingLink)
}

func TestSeekerCancelWithinNoticeWindow(t *testing.T) {
	svc, repo, slots, _ := newTestEngine()
	ctx := context.Background()

	// Slot starts in two hours, well inside the 24 hour notice window.
	slot := futureSlot("advisor-1", 2*time.Hour)
	require.NoError(t, slots.Create(ctx, slot))

	c := &models.Consultation{
		ID:        uuid.New().String(),
		SeekerID:  "seeker-1",
		AdvisorID: "advisor-1",
		SlotID:    slot.ID,
		Status:    models.ConsultationPending,
	}
	repo.consultations[c.ID] = c

	_, err := svc.Cancel(ctx, c.ID, "seeker-1", "changed my mind")
	assert.ErrorIs(t, err, ErrCancellationWindowExpired)
}

func TestSeekerCancelRecordsReason(t *testing.T) {
	svc, repo, slots, _ := newTestEngine()
	ctx := context.Background()

	slot := futureSlot("advisor-1", 72*time.Hour)
	slot.IsBooked = true
	require.NoError(t, slots.Create(ctx, slot))

	c := &models.Consultation{
		ID:        uuid.New().String(),
		SeekerID:  "seeker-1",
		AdvisorID: "advisor-1",
		SlotID:    slot.ID,
		Status:    models.ConsultationPending,
	}
	repo.consultations[c.ID] = c

	updated, err := svc.Cancel(ctx, c.ID, "seeker-1", "found another advisor")
	require.NoError(t, err)
	assert.Equal(t, models.ConsultationCancelled, updated.Status)
	assert.Equal(t, "found another advisor", updated.CancelReason)
	assert.NotNil(t, updated.CancelledAt)

	released, err := slots.GetByID(ctx, slot.ID)
	require.NoError(t, err)
	assert.False(t, released.IsBooked)
}

func TestSeekerCancelActiveRejected(t *testing.T) {
	svc, repo, slots, _ := newTestEngine()
	ctx := context.Background()

	slot := futureSlot("advisor-1", 72*time.Hour)
	require.NoError(t, slots.Create(ctx, slot))

	c := &models.Consultation{
		ID:        uuid.New().String(),
		SeekerID:  "seeker-1",
		AdvisorID: "advisor-1",
		SlotID:    slot.ID,
		Status:    models.ConsultationActive,
	}
	repo.consultations[c.ID] = c

	_, err := svc.Cancel(ctx, c.ID, "seeker-1", "")
	var svcErr *utils.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, utils.CodeInvalidTransition, svcErr.Code)
}

func TestRecordReview(t *testing.T) {
	svc, repo, _, _ := newTestEngine()
	ctx := context.Background()

	c := &models.Consultation{
		ID:        uuid.New().String(),
		SeekerID:  "seeker-1",
		AdvisorID: "advisor-1",
		Status:    models.ConsultationCompleted,
	}
	repo.consultations[c.ID] = c

	t.Run("rating out of range", func(t *testing.T) {
		_, err := svc.RecordReview(ctx, c.ID, "seeker-1", 6, "")
		var svcErr *utils.ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, utils.CodeValidationError, svcErr.Code)
	})

	t.Run("not the seeker's consultation", func(t *testing.T) {
		_, err := svc.RecordReview(ctx, c.ID, "seeker-2", 5, "")
		var svcErr *utils.ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, utils.CodeValidationError, svcErr.Code)
	})

	t.Run("records rating and review", func(t *testing.T) {
		updated, err := svc.RecordReview(ctx, c.ID, "seeker-1", 5, "very helpful session")
		require.NoError(t, err)
		assert.Equal(t, 5, updated.Rating)
		assert.Equal(t, "very helpful session", updated.Review)
	})
}

func TestReviewRequiresCompletedStatus(t *testing.T) {
	svc, repo, _, _ := newTestEngine()
	ctx := context.Background()

	c := &models.Consultation{
		ID:       uuid.New().String(),
		SeekerID: "seeker-1",
		Status:   models.ConsultationActive,
	}
	repo.consultations[c.ID] = c

	_, err := svc.RecordReview(ctx, c.ID, "seeker-1", 4, "")
	var svcErr *utils.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, utils.CodeValidationError, svcErr.Code)
}

func TestFullLifecycle(t *testing.T) {
	svc, _, slots, notif := newTestEngine()
	ctx := context.Background()

	slot := futureSlot("advisor-1", 48*time.Hour)
	require.NoError(t, slots.Create(ctx, slot))

	c, err := svc.Book(ctx, "seeker-1", models.BookConsultationRequest{
		AdvisorID: "advisor-1",
		SlotID:    slot.ID,
	})
	require.NoError(t, err)

	booked, err := slots.GetByID(ctx, slot.ID)
	require.NoError(t, err)
	assert.True(t, booked.IsBooked)

	// A second seeker cannot take the same slot while it is booked.
	_, err = svc.Book(ctx, "seeker-2", models.BookConsultationRequest{
		AdvisorID: "advisor-1",
		SlotID:    slot.ID,
	})
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	advisor := models.Identity{SubjectID: "advisor-1", Role: models.RoleAdvisor}
	active, err := svc.Transition(ctx, c.ID, advisor, models.TransitionConsultationRequest{
		Status: models.ConsultationActive,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ConsultationActive, active.Status)

	done, err := svc.Transition(ctx, c.ID, advisor, models.TransitionConsultationRequest{
		Status: models.ConsultationCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ConsultationCompleted, done.Status)

	released, err := slots.GetByID(ctx, slot.ID)
	require.NoError(t, err)
	assert.False(t, released.IsBooked)

	assert.Equal(t, []string{c.ID}, notif.bookings)
	assert.Equal(t, []string{c.ID + ":ACTIVE", c.ID + ":COMPLETED"}, notif.transitions)
}

func TestGetForParticipantScoping(t *testing.T) {
	svc, repo, _, _ := newTestEngine()
	ctx := context.Background()

	c := &models.Consultation{
		ID:        uuid.New().String(),
		SeekerID:  "seeker-1",
		AdvisorID: "advisor-1",
		Status:    models.ConsultationPending,
	}
	repo.consultations[c.ID] = c

	_, err := svc.GetForParticipant(ctx, c.ID, models.Identity{SubjectID: "seeker-1", Role: models.RoleSeeker})
	assert.NoError(t, err)

	_, err = svc.GetForParticipant(ctx, c.ID, models.Identity{SubjectID: "seeker-2", Role: models.RoleSeeker})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetForParticipant(ctx, c.ID, models.Identity{SubjectID: "advisor-2", Role: models.RoleAdvisor})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetForParticipant(ctx, c.ID, models.Identity{SubjectID: "ops-1", Role: models.RoleOperator})
	assert.NoError(t, err)
}
