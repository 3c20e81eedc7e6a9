package service

import (
	"context"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"

	"github.com/fasthotel/hotel-api/internal/model"
	"github.com/fasthotel/hotel-api/internal/service/ports"
)

func newTestLogger(t *testing.T) logrus.FieldLogger {
	t.Helper()
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func fixedClock(s string) func() time.Time {
	t := date(s).Add(9 * time.Hour)
	return func() time.Time { return t }
}

// memData is the whole database of the fake store.
type memData struct {
	rooms        map[uint64]model.Room
	reservations map[uint64]model.Reservation
	charges      map[uint64]model.Charge
	payments     map[uint64]model.Payment
	services     map[uint64]model.Service
	guests       map[uint64]model.Guest
	users        map[uint64]model.User
	seq          uint64
}

func newMemData() *memData {
	return &memData{
		rooms:        map[uint64]model.Room{},
		reservations: map[uint64]model.Reservation{},
		charges:      map[uint64]model.Charge{},
		payments:     map[uint64]model.Payment{},
		services:     map[uint64]model.Service{},
		guests:       map[uint64]model.Guest{},
		users:        map[uint64]model.User{},
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (d *memData) clone() memData {
	return memData{
		rooms:        cloneMap(d.rooms),
		reservations: cloneMap(d.reservations),
		charges:      cloneMap(d.charges),
		payments:     cloneMap(d.payments),
		services:     cloneMap(d.services),
		guests:       cloneMap(d.guests),
		users:        cloneMap(d.users),
		seq:          d.seq,
	}
}

func (d *memData) nextID() uint64 {
	d.seq++
	return d.seq
}

// memStore implements ports.Store in memory. A transaction snapshots the
// data and restores it when fn fails. failures injects errors by
// operation name ("rooms.UpdateStatus", ...).
type memStore struct {
	mu        *sync.Mutex
	data      *memData
	failures  map[string]error
	inTx      bool
	commits   int
	rollbacks int
}

func newMemStore() *memStore {
	return &memStore{mu: &sync.Mutex{}, data: newMemData(), failures: map[string]error{}}
}

func (s *memStore) failOn(op string, err error) { s.failures[op] = err }

func (s *memStore) check(op string) error {
	if err, ok := s.failures[op]; ok {
		return err
	}
	return nil
}

func (s *memStore) Rooms() ports.RoomRepo               { return memRooms{s} }
func (s *memStore) Reservations() ports.ReservationRepo { return memReservations{s} }
func (s *memStore) Charges() ports.ChargeRepo           { return memCharges{s} }
func (s *memStore) Payments() ports.PaymentRepo         { return memPayments{s} }
func (s *memStore) Services() ports.ServiceRepo         { return memServices{s} }
func (s *memStore) Guests() ports.GuestRepo             { return memGuests{s} }

func (s *memStore) WithinTx(ctx context.Context, fn func(tx ports.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	tx := &memStore{mu: s.mu, data: s.data, failures: s.failures, inTx: true}
	if err := fn(tx); err != nil {
		*s.data = snapshot
		s.rollbacks++
		return err
	}
	s.commits++
	return nil
}

// seeding helpers

func (s *memStore) addRoom(number string, rateCents int64, status model.RoomStatus) model.Room {
	r := model.Room{ID: s.data.nextID(), Number: number, Type: "double", Capacity: 2, NightlyRateCents: rateCents, Status: status}
	s.data.rooms[r.ID] = r
	return r
}

func (s *memStore) addUser(name, role string) model.User {
	u := model.User{ID: s.data.nextID(), Name: name, Email: name + "@hotel.test", Role: role}
	s.data.users[u.ID] = u
	return u
}

func (s *memStore) addGuest(first, last string) model.Guest {
	g := model.Guest{ID: s.data.nextID(), FirstName: first, LastName: last}
	s.data.guests[g.ID] = g
	return g
}

func (s *memStore) addService(name string, priceCents int64) model.Service {
	v := model.Service{ID: s.data.nextID(), Name: name, PriceCents: priceCents}
	s.data.services[v.ID] = v
	return v
}

func (s *memStore) addReservation(roomID, userID uint64, in, out string, status model.ReservationStatus, totalCents int64) model.Reservation {
	r := model.Reservation{
		ID: s.data.nextID(), RoomID: roomID, UserID: userID,
		CheckIn: date(in), CheckOut: date(out), Status: status, TotalCents: totalCents,
	}
	s.data.reservations[r.ID] = r
	return r
}

// rooms

type memRooms struct{ s *memStore }

func (r memRooms) Create(ctx context.Context, room *model.Room) error {
	if err := r.s.check("rooms.Create"); err != nil {
		return err
	}
	for _, x := range r.s.data.rooms {
		if x.Number == room.Number {
			return model.ErrRoomNumberTaken
		}
	}
	room.ID = r.s.data.nextID()
	r.s.data.rooms[room.ID] = *room
	return nil
}

func (r memRooms) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	if err := r.s.check("rooms.GetByID"); err != nil {
		return nil, err
	}
	room, ok := r.s.data.rooms[id]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	return &room, nil
}

func (r memRooms) LockByID(ctx context.Context, id uint64) (*model.Room, error) {
	if err := r.s.check("rooms.LockByID"); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r memRooms) List(ctx context.Context, status model.RoomStatus) ([]model.Room, error) {
	var out []model.Room
	for _, x := range r.s.data.rooms {
		if status == "" || x.Status == status {
			out = append(out, x)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r memRooms) Update(ctx context.Context, room *model.Room) error {
	if _, ok := r.s.data.rooms[room.ID]; !ok {
		return model.ErrRoomNotFound
	}
	for _, x := range r.s.data.rooms {
		if x.Number == room.Number && x.ID != room.ID {
			return model.ErrRoomNumberTaken
		}
	}
	r.s.data.rooms[room.ID] = *room
	return nil
}

func (r memRooms) UpdateStatus(ctx context.Context, id uint64, status model.RoomStatus) error {
	if err := r.s.check("rooms.UpdateStatus"); err != nil {
		return err
	}
	room, ok := r.s.data.rooms[id]
	if !ok {
		return model.ErrRoomNotFound
	}
	room.Status = status
	r.s.data.rooms[id] = room
	return nil
}

func (r memRooms) Delete(ctx context.Context, id uint64) error {
	if _, ok := r.s.data.rooms[id]; !ok {
		return model.ErrRoomNotFound
	}
	for _, res := range r.s.data.reservations {
		if res.RoomID == id {
			return model.ErrConflict
		}
	}
	delete(r.s.data.rooms, id)
	return nil
}

// reservations

type memReservations struct{ s *memStore }

func (r memReservations) Create(ctx context.Context, res *model.Reservation) error {
	if err := r.s.check("reservations.Create"); err != nil {
		return err
	}
	res.ID = r.s.data.nextID()
	r.s.data.reservations[res.ID] = *res
	return nil
}

func (r memReservations) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	res, ok := r.s.data.reservations[id]
	if !ok {
		return nil, model.ErrReservationNotFound
	}
	return &res, nil
}

func (r memReservations) GetActiveForUpdate(ctx context.Context, id uint64) (*model.Reservation, error) {
	res, ok := r.s.data.reservations[id]
	if !ok || !res.Status.Active() {
		return nil, model.ErrReservationNotFound
	}
	return &res, nil
}

func (r memReservations) FindOverlapping(ctx context.Context, roomID uint64, in, out time.Time, excludeID uint64) ([]uint64, error) {
	if err := r.s.check("reservations.FindOverlapping"); err != nil {
		return nil, err
	}
	var ids []uint64
	for _, x := range r.s.data.reservations {
		if x.RoomID != roomID || x.ID == excludeID || !x.Status.Active() {
			continue
		}
		if in.Before(x.CheckOut) && out.After(x.CheckIn) {
			ids = append(ids, x.ID)
		}
	}
	return ids, nil
}

func (r memReservations) view(res model.Reservation) model.ReservationView {
	room := r.s.data.rooms[res.RoomID]
	user := r.s.data.users[res.UserID]
	v := model.ReservationView{
		Reservation: res,
		RoomNumber:  room.Number,
		RoomType:    room.Type,
		NightlyRate: room.NightlyRateCents,
		UserName:    user.Name,
		UserEmail:   user.Email,
	}
	if res.GuestID != nil {
		if g, ok := r.s.data.guests[*res.GuestID]; ok {
			name := g.FullName()
			v.GuestName = &name
		}
	}
	return v
}

func (r memReservations) GetView(ctx context.Context, id uint64) (*model.ReservationView, error) {
	res, ok := r.s.data.reservations[id]
	if !ok {
		return nil, model.ErrReservationNotFound
	}
	v := r.view(res)
	return &v, nil
}

func (r memReservations) List(ctx context.Context, f model.ReservationFilter) ([]model.ReservationView, error) {
	var out []model.ReservationView
	for _, x := range r.s.data.reservations {
		if f.UserID != 0 && x.UserID != f.UserID {
			continue
		}
		if f.RoomID != 0 && x.RoomID != f.RoomID {
			continue
		}
		if f.Status != "" && x.Status != f.Status {
			continue
		}
		out = append(out, r.view(x))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r memReservations) Update(ctx context.Context, res *model.Reservation) error {
	if err := r.s.check("reservations.Update"); err != nil {
		return err
	}
	if _, ok := r.s.data.reservations[res.ID]; !ok {
		return model.ErrReservationNotFound
	}
	r.s.data.reservations[res.ID] = *res
	return nil
}

func (r memReservations) cascade(id uint64) {
	for cid, c := range r.s.data.charges {
		if c.ReservationID == id {
			delete(r.s.data.charges, cid)
		}
	}
	for pid, p := range r.s.data.payments {
		if p.ReservationID == id {
			delete(r.s.data.payments, pid)
		}
	}
	delete(r.s.data.reservations, id)
}

func (r memReservations) Delete(ctx context.Context, id uint64) error {
	if _, ok := r.s.data.reservations[id]; !ok {
		return model.ErrReservationNotFound
	}
	r.cascade(id)
	return nil
}

func (r memReservations) DeleteByGuest(ctx context.Context, guestID uint64) (int64, error) {
	if err := r.s.check("reservations.DeleteByGuest"); err != nil {
		return 0, err
	}
	var n int64
	for id, x := range r.s.data.reservations {
		if x.GuestID != nil && *x.GuestID == guestID {
			r.cascade(id)
			n++
		}
	}
	return n, nil
}

// charges

type memCharges struct{ s *memStore }

func (r memCharges) Create(ctx context.Context, c *model.Charge) error {
	if err := r.s.check("charges.Create"); err != nil {
		return err
	}
	c.ID = r.s.data.nextID()
	r.s.data.charges[c.ID] = *c
	return nil
}

func (r memCharges) GetByID(ctx context.Context, id uint64) (*model.Charge, error) {
	c, ok := r.s.data.charges[id]
	if !ok {
		return nil, model.ErrChargeNotFound
	}
	return &c, nil
}

func (r memCharges) ListByReservation(ctx context.Context, reservationID uint64) ([]model.Charge, error) {
	var out []model.Charge
	for _, c := range r.s.data.charges {
		if reservationID == 0 || c.ReservationID == reservationID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memCharges) Update(ctx context.Context, c *model.Charge) error {
	if _, ok := r.s.data.charges[c.ID]; !ok {
		return model.ErrChargeNotFound
	}
	r.s.data.charges[c.ID] = *c
	return nil
}

func (r memCharges) Delete(ctx context.Context, id uint64) error {
	if _, ok := r.s.data.charges[id]; !ok {
		return model.ErrChargeNotFound
	}
	delete(r.s.data.charges, id)
	return nil
}

// payments

type memPayments struct{ s *memStore }

func (r memPayments) Create(ctx context.Context, p *model.Payment) error {
	p.ID = r.s.data.nextID()
	r.s.data.payments[p.ID] = *p
	return nil
}

func (r memPayments) GetByID(ctx context.Context, id uint64) (*model.Payment, error) {
	p, ok := r.s.data.payments[id]
	if !ok {
		return nil, model.ErrPaymentNotFound
	}
	return &p, nil
}

func (r memPayments) List(ctx context.Context, f model.PaymentFilter) ([]model.PaymentView, error) {
	var out []model.PaymentView
	for _, p := range r.s.data.payments {
		res := r.s.data.reservations[p.ReservationID]
		if res.Status.Terminal() {
			continue
		}
		if f.ReservationID != 0 && p.ReservationID != f.ReservationID {
			continue
		}
		out = append(out, model.PaymentView{Payment: p, ReservationStatus: res.Status})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r memPayments) ListByReservation(ctx context.Context, reservationID uint64) ([]model.Payment, error) {
	var out []model.Payment
	for _, p := range r.s.data.payments {
		if p.ReservationID == reservationID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memPayments) Update(ctx context.Context, p *model.Payment) error {
	if _, ok := r.s.data.payments[p.ID]; !ok {
		return model.ErrPaymentNotFound
	}
	r.s.data.payments[p.ID] = *p
	return nil
}

func (r memPayments) Delete(ctx context.Context, id uint64) error {
	if _, ok := r.s.data.payments[id]; !ok {
		return model.ErrPaymentNotFound
	}
	delete(r.s.data.payments, id)
	return nil
}

func (r memPayments) Summaries(ctx context.Context) ([]model.SummaryRow, error) {
	var out []model.SummaryRow
	for _, res := range r.s.data.reservations {
		if res.Status.Terminal() {
			continue
		}
		row := model.SummaryRow{
			ReservationID:     res.ID,
			ReservationStatus: res.Status,
			RoomNumber:        r.s.data.rooms[res.RoomID].Number,
			UserName:          r.s.data.users[res.UserID].Name,
			RoomTotalCents:    res.TotalCents,
		}
		for _, c := range r.s.data.charges {
			if c.ReservationID == res.ID {
				row.ConsumptionCents += c.SubtotalCents()
			}
		}
		for _, p := range r.s.data.payments {
			if p.ReservationID == res.ID {
				row.PaidCents += p.AmountCents
			}
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReservationID > out[j].ReservationID })
	return out, nil
}

// catalog

type memServices struct{ s *memStore }

func (r memServices) Create(ctx context.Context, v *model.Service) error {
	v.ID = r.s.data.nextID()
	r.s.data.services[v.ID] = *v
	return nil
}

func (r memServices) GetByID(ctx context.Context, id uint64) (*model.Service, error) {
	v, ok := r.s.data.services[id]
	if !ok {
		return nil, model.ErrServiceNotFound
	}
	return &v, nil
}

func (r memServices) List(ctx context.Context) ([]model.Service, error) {
	var out []model.Service
	for _, v := range r.s.data.services {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memServices) Update(ctx context.Context, v *model.Service) error {
	if _, ok := r.s.data.services[v.ID]; !ok {
		return model.ErrServiceNotFound
	}
	r.s.data.services[v.ID] = *v
	return nil
}

func (r memServices) Delete(ctx context.Context, id uint64) error {
	if _, ok := r.s.data.services[id]; !ok {
		return model.ErrServiceNotFound
	}
	delete(r.s.data.services, id)
	return nil
}

// guests

type memGuests struct{ s *memStore }

func (r memGuests) Create(ctx context.Context, g *model.Guest) error {
	g.ID = r.s.data.nextID()
	r.s.data.guests[g.ID] = *g
	return nil
}

func (r memGuests) GetByID(ctx context.Context, id uint64) (*model.Guest, error) {
	g, ok := r.s.data.guests[id]
	if !ok {
		return nil, model.ErrGuestNotFound
	}
	return &g, nil
}

func (r memGuests) ListCurrent(ctx context.Context) ([]model.Guest, error) {
	var out []model.Guest
	for _, g := range r.s.data.guests {
		booked, active := false, false
		for _, res := range r.s.data.reservations {
			if res.GuestID != nil && *res.GuestID == g.ID {
				booked = true
				if !res.Status.Terminal() {
					active = true
				}
			}
		}
		if active || !booked {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FirstName < out[j].FirstName })
	return out, nil
}

func (r memGuests) find(match func(model.Guest) bool) uint64 {
	for _, g := range r.s.data.guests {
		if match(g) {
			return g.ID
		}
	}
	return 0
}

func (r memGuests) FindByDocument(ctx context.Context, doc string) (uint64, error) {
	return r.find(func(g model.Guest) bool { return g.Document != nil && *g.Document == doc }), nil
}

func (r memGuests) FindByIDCard(ctx context.Context, idCard string) (uint64, error) {
	return r.find(func(g model.Guest) bool { return g.IDCard != nil && *g.IDCard == idCard }), nil
}

func (r memGuests) Update(ctx context.Context, g *model.Guest) error {
	if _, ok := r.s.data.guests[g.ID]; !ok {
		return model.ErrGuestNotFound
	}
	r.s.data.guests[g.ID] = *g
	return nil
}

func (r memGuests) Delete(ctx context.Context, id uint64) error {
	if err := r.s.check("guests.Delete"); err != nil {
		return err
	}
	if _, ok := r.s.data.guests[id]; !ok {
		return model.ErrGuestNotFound
	}
	delete(r.s.data.guests, id)
	return nil
}

// mockPublisher records published reservation events.
type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) ReservationCreated(ctx context.Context, r model.Reservation, roomNumber string) error {
	return m.Called(ctx, r, roomNumber).Error(0)
}

func (m *mockPublisher) ReservationFinalized(ctx context.Context, r model.Reservation, roomNumber string) error {
	return m.Called(ctx, r, roomNumber).Error(0)
}
