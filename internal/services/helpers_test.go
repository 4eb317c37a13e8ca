package services_test

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"artisanconnect/internal/models"
	"artisanconnect/internal/payment"
	"artisanconnect/internal/repositories"
	"artisanconnect/internal/services"
	"artisanconnect/internal/sms"
	"artisanconnect/pkg/idempotency"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testKeySecret = "test_key_secret"

// liveGateway behaves like the real gateway without the network.
type liveGateway struct {
	seq int64
}

func (g *liveGateway) CreateOrder(amount int64, currency, receipt string) (*payment.Intent, error) {
	n := atomic.AddInt64(&g.seq, 1)
	return &payment.Intent{ID: fmt.Sprintf("order_live%04d", n), Amount: amount, Currency: currency, Receipt: receipt, Status: "created"}, nil
}

func (g *liveGateway) VerifySignature(gatewayOrderID, paymentID, signature string) bool {
	return payment.VerifySignature(testKeySecret, gatewayOrderID, paymentID, signature)
}

func (g *liveGateway) Mock() bool { return false }

// failingGateway rejects every intent.
type failingGateway struct{}

func (failingGateway) CreateOrder(int64, string, string) (*payment.Intent, error) {
	return nil, errors.New("Authentication failed")
}
func (failingGateway) VerifySignature(string, string, string) bool { return false }
func (failingGateway) Mock() bool                                  { return false }

type sentMessage struct {
	Phone   string
	Message string
}

// recordingSender keeps every message it is asked to send.
type recordingSender struct {
	mu       sync.Mutex
	messages []sentMessage
	failFor  map[string]bool
}

func (s *recordingSender) Send(phone, message string) (*sms.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFor[phone] {
		return nil, errors.New("provider rejected message")
	}
	s.messages = append(s.messages, sentMessage{Phone: phone, Message: message})
	return &sms.Result{MessageID: fmt.Sprintf("req-%d", len(s.messages))}, nil
}

func (s *recordingSender) Sent() []sentMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sentMessage(nil), s.messages...)
}

// recordingDeadLetter keeps every failed fan-out.
type recordingDeadLetter struct {
	mu      sync.Mutex
	entries []string
}

func (d *recordingDeadLetter) Record(orderID string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries = append(d.entries, orderID)
}

func (d *recordingDeadLetter) Entries() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.entries...)
}

// marketplace is a fully wired order lifecycle on in-memory storage.
type marketplace struct {
	users      *repositories.MemoryUserRepository
	products   *repositories.MemoryProductRepository
	carts      *repositories.MemoryCartRepository
	orders     *repositories.MemoryOrderRepository
	sender     *recordingSender
	deadLetter *recordingDeadLetter
	dispatcher *services.AsyncDispatcher
	notifier   *services.Notifier
	service    *services.OrderService

	buyer   *models.User
	sellerA *models.User
	sellerB *models.User
}

func newMarketplace(t *testing.T, gateway payment.Gateway) *marketplace {
	t.Helper()
	logger := zap.NewNop()

	m := &marketplace{
		users:      repositories.NewMemoryUserRepository(),
		products:   repositories.NewMemoryProductRepository(),
		carts:      repositories.NewMemoryCartRepository(),
		orders:     repositories.NewMemoryOrderRepository(),
		sender:     &recordingSender{},
		deadLetter: &recordingDeadLetter{},
	}
	m.notifier = services.NewNotifier(m.users, m.orders, m.sender, idempotency.NewMemoryStore(), logger)
	m.dispatcher = services.NewAsyncDispatcher(m.notifier, m.deadLetter)
	m.service = services.NewOrderService(m.orders, m.products, m.carts, gateway, m.dispatcher, "INR", logger)

	m.buyer = m.addUser(t, "priya", models.RoleBuyer, "+91 98765 43210")
	m.sellerA = m.addUser(t, "ravi", models.RoleSeller, "9000000001")
	m.sellerB = m.addUser(t, "meena", models.RoleSeller, "9000000002")
	return m
}

func (m *marketplace) addUser(t *testing.T, username string, role models.Role, phone string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com", Role: role, Phone: phone}
	require.NoError(t, m.users.Create(u))
	return u
}

func (m *marketplace) addProduct(t *testing.T, name string, price float64, artisan *models.User) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, MadeBy: artisan.Username, ImageURL: "https://img.example.com/" + name, Price: price, ArtisanID: artisan.ID}
	require.NoError(t, m.products.Create(p))
	return p
}

func identityOf(u *models.User) services.Identity {
	return services.Identity{UserID: u.ID, Username: u.Username, Role: u.Role}
}

var superadmin = services.Identity{Username: "admin", Role: models.RoleSuperadmin}
