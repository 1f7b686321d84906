package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/DO1FFE/adventskalender-backend/internal/models"
	"github.com/DO1FFE/adventskalender-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// In-memory repository fakes. They mirror the Mongo implementations'
// contracts, including the duplicate-key and conditional-update semantics,
// and allow error injection per operation.

func participationKey(userID primitive.ObjectID, day, year int) string {
	return fmt.Sprintf("%s-%d-%d", userID.Hex(), day, year)
}

type fakeParticipationRepo struct {
	mu        sync.Mutex
	records   map[string]*models.Participation
	createErr error
	// forceDuplicate makes Create fail as if a concurrent request won the
	// insert race after the Exists fast path.
	forceDuplicate bool
}

func newFakeParticipationRepo() *fakeParticipationRepo {
	return &fakeParticipationRepo{records: map[string]*models.Participation{}}
}

func (f *fakeParticipationRepo) Create(_ context.Context, p *models.Participation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	key := participationKey(p.UserID, p.Day, p.Year)
	if f.forceDuplicate || f.records[key] != nil {
		return repositories.ErrAlreadyParticipated
	}
	f.records[key] = p
	return nil
}

func (f *fakeParticipationRepo) Exists(_ context.Context, userID primitive.ObjectID, day, year int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.records[participationKey(userID, day, year)] != nil, nil
}

func (f *fakeParticipationRepo) FindByUser(_ context.Context, userID primitive.ObjectID, year int) ([]*models.Participation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Participation
	for _, p := range f.records {
		if p.UserID == userID && p.Year == year {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeParticipationRepo) CountByDay(_ context.Context, year int) (map[int]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[int]int64{}
	for _, p := range f.records {
		if p.Year == year {
			counts[p.Day]++
		}
	}
	return counts, nil
}

func (f *fakeParticipationRepo) DeleteAll(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = map[string]*models.Participation{}
	return nil
}

func (f *fakeParticipationRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

type fakeRewardRepo struct {
	mu        sync.Mutex
	rewards   []*models.Reward
	createErr error
}

func newFakeRewardRepo() *fakeRewardRepo {
	return &fakeRewardRepo{}
}

func (f *fakeRewardRepo) Create(_ context.Context, reward *models.Reward) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for _, r := range f.rewards {
		if r.UserID == reward.UserID && r.Day == reward.Day && r.Year == reward.Year {
			return repositories.ErrRewardConflict
		}
	}
	f.rewards = append(f.rewards, reward)
	return nil
}

func (f *fakeRewardRepo) FindByUser(_ context.Context, userID primitive.ObjectID) ([]*models.Reward, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Reward
	for _, r := range f.rewards {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRewardRepo) FindByUserAndDay(_ context.Context, userID primitive.ObjectID, day, year int) (*models.Reward, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rewards {
		if r.UserID == userID && r.Day == day && r.Year == year {
			return r, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeRewardRepo) CountByUser(_ context.Context, userID primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, r := range f.rewards {
		if r.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeRewardRepo) DeleteByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Reward, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var removed, kept []*models.Reward
	for _, r := range f.rewards {
		if r.UserID == userID {
			removed = append(removed, r)
		} else {
			kept = append(kept, r)
		}
	}
	f.rewards = kept
	return removed, nil
}

func (f *fakeRewardRepo) DeleteAll(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rewards = nil
	return nil
}

type fakePrizeRepo struct {
	mu      sync.Mutex
	entries []models.PrizeEntry
	decErr  error
	// failDecrementOnce simulates losing the conditional update race once.
	failDecrementOnce bool
	replaced          [][]models.PrizeEntry
}

func newFakePrizeRepo(entries ...models.PrizeEntry) *fakePrizeRepo {
	return &fakePrizeRepo{entries: entries}
}

func (f *fakePrizeRepo) FindAll(context.Context) ([]models.PrizeEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.PrizeEntry, len(f.entries))
	copy(out, f.entries)
	return out, nil
}

func (f *fakePrizeRepo) Replace(_ context.Context, entries []models.PrizeEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = entries
	f.replaced = append(f.replaced, entries)
	return nil
}

func (f *fakePrizeRepo) DecrementRemaining(_ context.Context, name, sponsor string) (*models.PrizeEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.decErr != nil {
		return nil, f.decErr
	}
	if f.failDecrementOnce {
		f.failDecrementOnce = false
		return nil, repositories.ErrOutOfStock
	}
	for i := range f.entries {
		e := &f.entries[i]
		if e.Name == name && e.Sponsor == sponsor && e.Remaining > 0 {
			e.Remaining--
			out := *e
			return &out, nil
		}
	}
	return nil, repositories.ErrOutOfStock
}

func (f *fakePrizeRepo) IncrementRemaining(_ context.Context, name, sponsor string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.entries {
		e := &f.entries[i]
		if e.Name == name && e.Sponsor == sponsor && e.Remaining < e.Total {
			e.Remaining++
			return nil
		}
	}
	return repositories.ErrOutOfStock
}

func (f *fakePrizeRepo) remaining(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.Name == name {
			return e.Remaining
		}
	}
	return -1
}

type fakeCalendarRepo struct {
	mu     sync.Mutex
	active bool
}

func (f *fakeCalendarRepo) Get(context.Context) (*models.CalendarState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &models.CalendarState{Active: f.active}, nil
}

func (f *fakeCalendarRepo) Set(_ context.Context, active bool, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.active = active
	return nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	f := &fakeUserRepo{users: map[primitive.ObjectID]*models.User{}}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeUserRepo) FindByDisplayName(_ context.Context, name string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.DisplayName == name {
			return u, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeUserRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, id)
	return nil
}
