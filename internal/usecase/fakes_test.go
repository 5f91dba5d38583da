package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"ride-hailing/internal/data/entity"
	"ride-hailing/internal/data/repository"
	"ride-hailing/pkg/notify"
	"ride-hailing/pkg/payment"
	"ride-hailing/pkg/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var pngBytes = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
	0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1F, 0x15, 0xC4, 0x89,
}

var uniqueViolation = &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}

// ==================== USERS ====================

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*entity.User{}}
}

func (r *fakeUserRepo) put(u *entity.User) *entity.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.users[u.ID] = &cp
	return u
}

func (r *fakeUserRepo) get(id uuid.UUID) *entity.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp
	}
	return nil
}

func (r *fakeUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

func (r *fakeUserRepo) find(match func(*entity.User) bool) *entity.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			cp := *u
			return &cp
		}
	}
	return nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email || u.Phone == user.Phone {
			return fmt.Errorf("create user: %w", uniqueViolation)
		}
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return r.get(id), nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Email == email }), nil
}

func (r *fakeUserRepo) FindByPhone(_ context.Context, phone string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Phone == phone }), nil
}

func (r *fakeUserRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*entity.User
	for _, u := range r.users {
		cp := *u
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Email < all[j].Email })
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *fakeUserRepo) FindByVerificationStatus(_ context.Context, status entity.VerificationStatus, role entity.UserRole) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.User
	for _, u := range r.users {
		if u.Role == role && u.VerificationStatus != nil && *u.VerificationStatus == status {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*entity.User, error) {
	var out []*entity.User
	for _, id := range ids {
		if u := r.get(id); u != nil {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) CountAll(_ context.Context) (int64, error) {
	return int64(r.count()), nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, email, hash string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			u.PasswordHash = hash
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) UpdateVerificationStatus(_ context.Context, id uuid.UUID, status entity.VerificationStatus, notes *string, adminID uuid.UUID) error {
	return r.mutate(id, func(u *entity.User) {
		now := time.Now()
		u.VerificationStatus = &status
		u.VerificationNotes = notes
		u.VerifiedBy = &adminID
		u.VerifiedAt = &now
	})
}

func (r *fakeUserRepo) UpdateAccountStatus(_ context.Context, id uuid.UUID, status entity.AccountStatus) error {
	return r.mutate(id, func(u *entity.User) {
		u.AccountStatus = status
		u.IsAvailable = false
	})
}

func (r *fakeUserRepo) SetAvailability(_ context.Context, id uuid.UUID, available bool) error {
	return r.mutate(id, func(u *entity.User) { u.IsAvailable = available })
}

func (r *fakeUserRepo) TouchLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	return r.mutate(id, func(u *entity.User) { u.LastLoginAt = &at })
}

func (r *fakeUserRepo) mutate(id uuid.UUID, fn func(*entity.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	fn(u)
	return nil
}

// flakyUserRepo fails writes until its errors are cleared.
type flakyUserRepo struct {
	*fakeUserRepo
	createErr         error
	updatePasswordErr error
}

func (r *flakyUserRepo) Create(ctx context.Context, user *entity.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	return r.fakeUserRepo.Create(ctx, user)
}

func (r *flakyUserRepo) UpdatePassword(ctx context.Context, email, hash string) (*entity.User, error) {
	if r.updatePasswordErr != nil {
		return nil, r.updatePasswordErr
	}
	return r.fakeUserRepo.UpdatePassword(ctx, email, hash)
}

// ==================== RIDES ====================

type fakeRideRepo struct {
	mu    sync.Mutex
	rides map[uuid.UUID]*entity.Ride
}

func newFakeRideRepo() *fakeRideRepo {
	return &fakeRideRepo{rides: map[uuid.UUID]*entity.Ride{}}
}

func (r *fakeRideRepo) list(match func(*entity.Ride) bool) []*entity.Ride {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Ride
	for _, ride := range r.rides {
		if ride.DeletedAt == nil && match(ride) {
			cp := *ride
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func pageOf(rides []*entity.Ride, limit, offset int) []*entity.Ride {
	if offset >= len(rides) {
		return nil
	}
	end := offset + limit
	if end > len(rides) {
		end = len(rides)
	}
	return rides[offset:end]
}

func isOngoing(s entity.RideStatus) bool {
	return s == entity.RideRequested || s == entity.RideAccepted || s == entity.RideStarted
}

func inStatuses(s entity.RideStatus, statuses []entity.RideStatus) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, st := range statuses {
		if st == s {
			return true
		}
	}
	return false
}

func (r *fakeRideRepo) Create(_ context.Context, ride *entity.Ride) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *ride
	r.rides[ride.ID] = &cp
	return nil
}

func (r *fakeRideRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Ride, error) {
	rides := r.list(func(ride *entity.Ride) bool { return ride.ID == id })
	if len(rides) == 0 {
		return nil, nil
	}
	return rides[0], nil
}

func (r *fakeRideRepo) FindByRider(_ context.Context, riderID uuid.UUID, limit, offset int) ([]*entity.Ride, error) {
	return pageOf(r.list(func(ride *entity.Ride) bool { return ride.RiderID == riderID }), limit, offset), nil
}

func (r *fakeRideRepo) CountByRider(_ context.Context, riderID uuid.UUID) (int64, error) {
	return int64(len(r.list(func(ride *entity.Ride) bool { return ride.RiderID == riderID }))), nil
}

func (r *fakeRideRepo) byDriver(driverID uuid.UUID, statuses []entity.RideStatus) []*entity.Ride {
	return r.list(func(ride *entity.Ride) bool {
		return ride.DriverID != nil && *ride.DriverID == driverID && inStatuses(ride.Status, statuses)
	})
}

func (r *fakeRideRepo) FindByDriver(_ context.Context, driverID uuid.UUID, statuses []entity.RideStatus, limit, offset int) ([]*entity.Ride, error) {
	return pageOf(r.byDriver(driverID, statuses), limit, offset), nil
}

func (r *fakeRideRepo) CountByDriver(_ context.Context, driverID uuid.UUID, statuses []entity.RideStatus) (int64, error) {
	return int64(len(r.byDriver(driverID, statuses))), nil
}

func (r *fakeRideRepo) FindOngoingByRider(_ context.Context, riderID uuid.UUID) ([]*entity.Ride, error) {
	return r.list(func(ride *entity.Ride) bool { return ride.RiderID == riderID && isOngoing(ride.Status) }), nil
}

func (r *fakeRideRepo) FindOngoingByDriver(_ context.Context, driverID uuid.UUID) ([]*entity.Ride, error) {
	return r.list(func(ride *entity.Ride) bool {
		return ride.DriverID != nil && *ride.DriverID == driverID && isOngoing(ride.Status)
	}), nil
}

func (r *fakeRideRepo) FindByStatus(_ context.Context, status entity.RideStatus, limit, offset int) ([]*entity.Ride, error) {
	return pageOf(r.list(func(ride *entity.Ride) bool { return ride.Status == status }), limit, offset), nil
}

func (r *fakeRideRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.Ride, error) {
	return pageOf(r.list(func(*entity.Ride) bool { return true }), limit, offset), nil
}

func (r *fakeRideRepo) CountAll(_ context.Context) (int64, error) {
	return int64(len(r.list(func(*entity.Ride) bool { return true }))), nil
}

func (r *fakeRideRepo) FindByUserInRange(_ context.Context, userID uuid.UUID, start, end time.Time) ([]*entity.Ride, error) {
	return r.list(func(ride *entity.Ride) bool {
		return ride.IsParticipant(userID) && !ride.CreatedAt.Before(start) && ride.CreatedAt.Before(end)
	}), nil
}

func (r *fakeRideRepo) UpdateState(_ context.Context, ride *entity.Ride, expected entity.RideStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.rides[ride.ID]
	if !ok || stored.Status != expected {
		return repository.ErrRideStateChanged
	}
	cp := *ride
	cp.PaymentStatus = stored.PaymentStatus
	r.rides[ride.ID] = &cp
	return nil
}

func (r *fakeRideRepo) UpdatePaymentStatus(_ context.Context, id uuid.UUID, status entity.RidePaymentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ride, ok := r.rides[id]; ok {
		ride.PaymentStatus = status
		return nil
	}
	return fmt.Errorf("ride %s not found", id)
}

func (r *fakeRideRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ride, ok := r.rides[id]; ok {
		now := time.Now()
		ride.DeletedAt = &now
		return nil
	}
	return fmt.Errorf("ride %s not found", id)
}

// ==================== VEHICLES ====================

type fakeVehicleRepo struct {
	mu       sync.Mutex
	vehicles map[uuid.UUID]*entity.Vehicle
}

func newFakeVehicleRepo() *fakeVehicleRepo {
	return &fakeVehicleRepo{vehicles: map[uuid.UUID]*entity.Vehicle{}}
}

func (r *fakeVehicleRepo) Create(_ context.Context, v *entity.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.vehicles {
		if existing.PlateNumber == v.PlateNumber {
			return uniqueViolation
		}
	}
	cp := *v
	r.vehicles[v.ID] = &cp
	return nil
}

func (r *fakeVehicleRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.vehicles[id]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeVehicleRepo) FindByPlate(_ context.Context, plate string) (*entity.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.vehicles {
		if v.PlateNumber == plate {
			cp := *v
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeVehicleRepo) FindByDriver(_ context.Context, driverID uuid.UUID) ([]*entity.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Vehicle
	for _, v := range r.vehicles {
		if v.DriverID == driverID {
			cp := *v
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeVehicleRepo) FindActiveByDriver(ctx context.Context, driverID uuid.UUID) (*entity.Vehicle, error) {
	vehicles, _ := r.FindByDriver(ctx, driverID)
	for _, v := range vehicles {
		if v.IsActive {
			return v, nil
		}
	}
	return nil, nil
}

func (r *fakeVehicleRepo) Update(_ context.Context, v *entity.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *v
	r.vehicles[v.ID] = &cp
	return nil
}

func (r *fakeVehicleRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.vehicles[id]; ok {
		v.IsActive = false
	}
	return nil
}

// ==================== WALLETS & PAYMENTS ====================

type fakeWalletRepo struct {
	mu      sync.Mutex
	wallets map[uuid.UUID]*entity.Wallet
}

func newFakeWalletRepo() *fakeWalletRepo {
	return &fakeWalletRepo{wallets: map[uuid.UUID]*entity.Wallet{}}
}

func (r *fakeWalletRepo) Create(_ context.Context, w *entity.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.wallets {
		if existing.DriverID == w.DriverID && existing.IsActive {
			return uniqueViolation
		}
	}
	cp := *w
	r.wallets[w.ID] = &cp
	return nil
}

func (r *fakeWalletRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w, ok := r.wallets[id]; ok {
		cp := *w
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeWalletRepo) FindByDriver(_ context.Context, driverID uuid.UUID) (*entity.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var found *entity.Wallet
	for _, w := range r.wallets {
		if w.DriverID == driverID && (found == nil || w.IsActive) {
			cp := *w
			found = &cp
		}
	}
	return found, nil
}

func (r *fakeWalletRepo) Credit(_ context.Context, id uuid.UUID, amount decimal.Decimal) (*entity.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[id]
	if !ok || !w.IsActive {
		return nil, nil
	}
	w.TotalBalance = w.TotalBalance.Add(amount)
	w.ActualBalance = w.ActualBalance.Add(amount)
	cp := *w
	return &cp, nil
}

func (r *fakeWalletRepo) UpdateBalances(_ context.Context, w *entity.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *w
	r.wallets[w.ID] = &cp
	return nil
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments map[uuid.UUID]*entity.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: map[uuid.UUID]*entity.Payment{}}
}

func (r *fakePaymentRepo) Create(_ context.Context, p *entity.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.Status == entity.PaymentStatusSuccess {
		for _, existing := range r.payments {
			if existing.RideID == p.RideID && existing.Status == entity.PaymentStatusSuccess {
				return fmt.Errorf("create payment: %w", uniqueViolation)
			}
		}
	}
	cp := *p
	r.payments[p.ID] = &cp
	return nil
}

func (r *fakePaymentRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.payments[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *fakePaymentRepo) FindByGatewayOrderID(_ context.Context, orderID string) (*entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.payments {
		if p.GatewayOrderID != nil && *p.GatewayOrderID == orderID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakePaymentRepo) FindSuccessfulByRide(_ context.Context, rideID uuid.UUID) (*entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.payments {
		if p.RideID == rideID && p.Status == entity.PaymentStatusSuccess {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakePaymentRepo) UpdateStatus(_ context.Context, p *entity.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.payments[p.ID]
	if !ok || stored.Status != entity.PaymentStatusPending {
		return repository.ErrPaymentSettled
	}
	cp := *p
	r.payments[p.ID] = &cp
	return nil
}

// ==================== OUTBOUND ADAPTERS ====================

type fakeNotifier struct {
	mu   sync.Mutex
	jobs []notify.Job
}

func (n *fakeNotifier) Enqueue(job notify.Job) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.jobs = append(n.jobs, job)
}

func (n *fakeNotifier) byTemplate(name string) *notify.Job {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := range n.jobs {
		if n.jobs[i].Template == name {
			return &n.jobs[i]
		}
	}
	return nil
}

func (n *fakeNotifier) countTemplate(name string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	count := 0
	for _, job := range n.jobs {
		if job.Template == name {
			count++
		}
	}
	return count
}

func (n *fakeNotifier) sms() *notify.Job {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := range n.jobs {
		if n.jobs[i].Channel == notify.ChannelSMS {
			return &n.jobs[i]
		}
	}
	return nil
}

type fakeUploader struct {
	mu      sync.Mutex
	folders []string
	err     error
}

func (u *fakeUploader) Upload(_ context.Context, folder string, _ []byte) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.err != nil {
		return "", u.err
	}
	u.folders = append(u.folders, folder)
	return "http://cdn.test/" + folder + "/" + uuid.NewString() + ".png", nil
}

type fakeGateway struct {
	secret string
	orders int
	err    error
}

func (g *fakeGateway) KeyID() string { return "rzp_test_key" }

func (g *fakeGateway) CreateOrder(_ context.Context, amount decimal.Decimal, currency, receipt string) (*payment.Order, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.orders++
	return &payment.Order{
		ID:       fmt.Sprintf("order_%d", g.orders),
		Amount:   payment.ToMinorUnits(amount),
		Currency: currency,
		Receipt:  receipt,
		Status:   "created",
	}, nil
}

func (g *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return payment.Sign(g.secret, orderID, paymentID) == signature
}

// ==================== FIXTURE ====================

type fixture struct {
	users    *fakeUserRepo
	rides    *fakeRideRepo
	vehicles *fakeVehicleRepo
	wallets  *fakeWalletRepo
	payments *fakePaymentRepo
	mr       *miniredis.Miniredis
	repo     *repository.Repository
	notifier *fakeNotifier
	uploader *fakeUploader
	gateway  *fakeGateway
	config   *utils.Config
	log      *zap.Logger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	log := zap.NewNop()
	f := &fixture{
		users:    newFakeUserRepo(),
		rides:    newFakeRideRepo(),
		vehicles: newFakeVehicleRepo(),
		wallets:  newFakeWalletRepo(),
		payments: newFakePaymentRepo(),
		mr:       mr,
		notifier: &fakeNotifier{},
		uploader: &fakeUploader{},
		gateway:  &fakeGateway{secret: "test_secret"},
		config: &utils.Config{
			App:     utils.AppConfig{Name: "rideapp"},
			JWT:     utils.JWTConfig{Secret: "jwt-test-secret", ExpiryHours: 1},
			Email:   utils.EmailConfig{From: "support@rideapp.test"},
			OTP:     utils.OTPConfig{ExpiryMinutes: 10, Length: 6},
			Payment: utils.PaymentConfig{Currency: "INR"},
		},
		log: log,
	}
	f.repo = &repository.Repository{
		User:      f.users,
		Ride:      f.rides,
		Vehicle:   f.vehicles,
		Wallet:    f.wallets,
		Payment:   f.payments,
		Challenge: repository.NewRedisChallengeStore(rdb, log),
		Location:  repository.NewLocationRepository(rdb, log),
	}
	return f
}

func (f *fixture) service() *Service {
	return NewService(f.repo, Deps{
		Uploader: f.uploader,
		Notifier: f.notifier,
		Gateway:  f.gateway,
	}, f.config, f.log)
}

func (f *fixture) addUser(role entity.UserRole, mutate ...func(*entity.User)) *entity.User {
	now := time.Now()
	id := uuid.New()
	hash, _ := utils.HashPassword("secret123")
	u := &entity.User{
		Base:          entity.Base{ID: id, CreatedAt: now, UpdatedAt: now},
		Firstname:     "Test",
		Lastname:      string(role),
		Email:         id.String()[:8] + "@example.com",
		Phone:         "9" + id.String()[:9],
		PasswordHash:  hash,
		Role:          role,
		EmailVerified: true,
		PhoneVerified: true,
		AccountStatus: entity.AccountActive,
	}
	if role == entity.RoleDriver {
		status := entity.VerificationApproved
		u.VerificationStatus = &status
		u.IsAvailable = true
	}
	for _, m := range mutate {
		m(u)
	}
	return f.users.put(u)
}

func (f *fixture) addVehicle(driverID uuid.UUID) *entity.Vehicle {
	v := &entity.Vehicle{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		DriverID:     driverID,
		Make:         "Maruti",
		Model:        "Swift",
		Color:        "White",
		PlateNumber:  "KA01" + uuid.NewString()[:6],
		VehicleType:  entity.VehicleCar,
		Seats:        4,
		IsActive:     true,
	}
	_ = f.vehicles.Create(context.Background(), v)
	return v
}

func (f *fixture) addWallet(driverID uuid.UUID) *entity.Wallet {
	w := &entity.Wallet{
		BaseNoDelete:     entity.BaseNoDelete{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		DriverID:         driverID,
		TotalBalance:     decimal.Zero,
		ActualBalance:    decimal.Zero,
		PendingDeduction: decimal.Zero,
		IsActive:         true,
	}
	_ = f.wallets.Create(context.Background(), w)
	return w
}
