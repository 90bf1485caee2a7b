package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/zulvanavito/Plastira/internal/models"
	"github.com/zulvanavito/Plastira/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// In-memory repositories mirroring the conditional semantics of the mongo implementations.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
	err   error
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[primitive.ObjectID]*models.User{}}
	for _, u := range users {
		if u.ID.IsZero() {
			u.ID = primitive.NewObjectID()
		}
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return repositories.ErrDuplicateKey
		}
	}
	user.ID = primitive.NewObjectID()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *u
	cp.Badges = append([]string(nil), u.Badges...)
	return &cp, nil
}

func (r *fakeUserRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.User{}
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) IncrementPoints(_ context.Context, id primitive.ObjectID, points int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	u.Points += points
	return nil
}

func (r *fakeUserRepo) DeductPoints(_ context.Context, id primitive.ObjectID, points int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.Points < points {
		return repositories.ErrConditionNotMet
	}
	u.Points -= points
	return nil
}

func (r *fakeUserRepo) AddBadges(_ context.Context, id primitive.ObjectID, badges []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	for _, b := range badges {
		if !u.HasBadge(b) {
			u.Badges = append(u.Badges, b)
		}
	}
	return nil
}

func (r *fakeUserRepo) TopByPoints(_ context.Context, role string, limit int) ([]*models.LeaderboardEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.LeaderboardEntry{}
	for _, u := range r.users {
		if u.Role == role {
			out = append(out, &models.LeaderboardEntry{ID: u.ID, Name: u.Name, Points: u.Points})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Points > out[j].Points })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeUserRepo) get(id primitive.ObjectID) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id]
}

type fakeMitraRepo struct {
	mitras map[primitive.ObjectID]*models.Mitra
}

func newFakeMitraRepo(mitras ...*models.Mitra) *fakeMitraRepo {
	r := &fakeMitraRepo{mitras: map[primitive.ObjectID]*models.Mitra{}}
	for _, m := range mitras {
		if m.ID.IsZero() {
			m.ID = primitive.NewObjectID()
		}
		r.mitras[m.ID] = m
	}
	return r
}

func (r *fakeMitraRepo) Create(_ context.Context, mitra *models.Mitra) error {
	for _, m := range r.mitras {
		if m.Email == mitra.Email {
			return repositories.ErrDuplicateKey
		}
	}
	mitra.ID = primitive.NewObjectID()
	cp := *mitra
	r.mitras[mitra.ID] = &cp
	return nil
}

func (r *fakeMitraRepo) FindByEmail(_ context.Context, email string) (*models.Mitra, error) {
	for _, m := range r.mitras {
		if m.Email == email {
			cp := *m
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeMitraRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]*models.Mitra, error) {
	out := []*models.Mitra{}
	for _, id := range ids {
		if m, ok := r.mitras[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakePickupRepo struct {
	mu      sync.Mutex
	pickups []*models.Pickup
	// raceOnTransition simulates another admin deciding the pickup first
	raceOnTransition bool
}

func (r *fakePickupRepo) add(p *models.Pickup) *models.Pickup {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	r.pickups = append(r.pickups, p)
	return p
}

func (r *fakePickupRepo) Create(_ context.Context, p *models.Pickup) error {
	r.add(p)
	return nil
}

func (r *fakePickupRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Pickup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.pickups {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakePickupRepo) filter(keep func(*models.Pickup) bool) []*models.Pickup {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.Pickup{}
	for i := len(r.pickups) - 1; i >= 0; i-- {
		if keep(r.pickups[i]) {
			cp := *r.pickups[i]
			out = append(out, &cp)
		}
	}
	return out
}

func (r *fakePickupRepo) FindAll(_ context.Context) ([]*models.Pickup, error) {
	return r.filter(func(*models.Pickup) bool { return true }), nil
}

func (r *fakePickupRepo) FindByUserID(_ context.Context, userID primitive.ObjectID) ([]*models.Pickup, error) {
	return r.filter(func(p *models.Pickup) bool { return p.UserID == userID }), nil
}

func (r *fakePickupRepo) FindByUserIDAndStatus(_ context.Context, userID primitive.ObjectID, status models.PickupStatus) ([]*models.Pickup, error) {
	return r.filter(func(p *models.Pickup) bool { return p.UserID == userID && p.Status == status }), nil
}

func (r *fakePickupRepo) TransitionFromPending(_ context.Context, id primitive.ObjectID, t repositories.PickupTransition) (*models.Pickup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.pickups {
		if p.ID != id {
			continue
		}
		if r.raceOnTransition {
			p.Status = models.PickupStatusRejected
		}
		if p.Status != models.PickupStatusPending {
			return nil, repositories.ErrConditionNotMet
		}
		p.Status = t.Status
		p.PointsAwarded = t.PointsAwarded
		p.RejectionNote = t.RejectionNote
		p.VerifiedAt = t.VerifiedAt
		cp := *p
		return &cp, nil
	}
	return nil, repositories.ErrConditionNotMet
}

type fakeVoucherRepo struct {
	mu       sync.Mutex
	vouchers map[primitive.ObjectID]*models.Voucher
	order    []primitive.ObjectID
}

func newFakeVoucherRepo(vouchers ...*models.Voucher) *fakeVoucherRepo {
	r := &fakeVoucherRepo{vouchers: map[primitive.ObjectID]*models.Voucher{}}
	for _, v := range vouchers {
		_ = r.Create(context.Background(), v)
	}
	return r
}

func (r *fakeVoucherRepo) Create(_ context.Context, v *models.Voucher) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v.ID.IsZero() {
		v.ID = primitive.NewObjectID()
	}
	r.vouchers[v.ID] = v
	r.order = append(r.order, v.ID)
	return nil
}

func (r *fakeVoucherRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Voucher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vouchers[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *v
	return &cp, nil
}

func (r *fakeVoucherRepo) list(keep func(*models.Voucher) bool) []*models.Voucher {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.Voucher{}
	for _, id := range r.order {
		if v, ok := r.vouchers[id]; ok && keep(v) {
			cp := *v
			out = append(out, &cp)
		}
	}
	return out
}

func (r *fakeVoucherRepo) FindActive(_ context.Context) ([]*models.Voucher, error) {
	out := r.list(func(v *models.Voucher) bool { return v.IsActive })
	sort.SliceStable(out, func(i, j int) bool { return out[i].PointsRequired < out[j].PointsRequired })
	return out, nil
}

func (r *fakeVoucherRepo) FindAll(_ context.Context) ([]*models.Voucher, error) {
	return r.list(func(*models.Voucher) bool { return true }), nil
}

func (r *fakeVoucherRepo) FindBySponsor(_ context.Context, mitraID primitive.ObjectID) ([]*models.Voucher, error) {
	return r.list(func(v *models.Voucher) bool { return v.SponsoredBy != nil && *v.SponsoredBy == mitraID }), nil
}

func (r *fakeVoucherRepo) Update(_ context.Context, v *models.Voucher) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.vouchers[v.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	cp := *v
	r.vouchers[v.ID] = &cp
	return nil
}

func (r *fakeVoucherRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.vouchers[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(r.vouchers, id)
	return nil
}

func (r *fakeVoucherRepo) DecrementStock(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vouchers[id]
	if !ok || !v.IsActive || v.Stock <= 0 {
		return repositories.ErrConditionNotMet
	}
	v.Stock--
	return nil
}

func (r *fakeVoucherRepo) IncrementStock(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vouchers[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	v.Stock++
	return nil
}

func (r *fakeVoucherRepo) get(id primitive.ObjectID) *models.Voucher {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.vouchers[id]
}

type fakeRedemptionRepo struct {
	mu          sync.Mutex
	redemptions []*models.Redemption
}

func (r *fakeRedemptionRepo) Create(_ context.Context, red *models.Redemption) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	red.ID = primitive.NewObjectID()
	cp := *red
	r.redemptions = append(r.redemptions, &cp)
	return nil
}

func (r *fakeRedemptionRepo) FindByUserID(_ context.Context, userID primitive.ObjectID) ([]*models.Redemption, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.Redemption{}
	for i := len(r.redemptions) - 1; i >= 0; i-- {
		if r.redemptions[i].UserID == userID {
			out = append(out, r.redemptions[i])
		}
	}
	return out, nil
}

func (r *fakeRedemptionRepo) FindByVoucherIDs(_ context.Context, ids []primitive.ObjectID) ([]*models.Redemption, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	want := map[primitive.ObjectID]bool{}
	for _, id := range ids {
		want[id] = true
	}
	out := []*models.Redemption{}
	for _, red := range r.redemptions {
		if want[red.VoucherID] {
			out = append(out, red)
		}
	}
	return out, nil
}

// recordingPublisher captures notifications instead of delivering them
type recordingPublisher struct {
	mu        sync.Mutex
	toUser    map[string][]models.Notification
	toAdmins  []models.Notification
	announced []models.Notification
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{toUser: map[string][]models.Notification{}}
}

func (p *recordingPublisher) EmitToUser(_ context.Context, userID string, n models.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.toUser[userID] = append(p.toUser[userID], n)
}

func (p *recordingPublisher) BroadcastToAdmins(_ context.Context, n models.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.toAdmins = append(p.toAdmins, n)
}

func (p *recordingPublisher) Announce(_ context.Context, n models.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.announced = append(p.announced, n)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
