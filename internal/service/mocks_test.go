package service_test

import (
	"context"
	"errors"
	"io"

	"github.com/olives-green/fieldops-bff-go/internal/domain"
)

var errUpstream = errors.New("upstream unavailable")

// --- Mocks ---

type mockQuoteStore struct {
	quotes map[string]*domain.Quote
	list   []domain.Quote

	created       []*domain.CreateQuoteRequest
	updated       map[string]*domain.CreateQuoteRequest
	sent          []string
	approved      []string
	rejected      []string
	statusSet     map[string]domain.QuoteStatus
	depositsPaid  map[string]float64
	magicApproved map[string]string

	getErr     error
	createErr  error
	updateErr  error
	sendErr    error
	approveErr error
	payErr     error
	listErr    error
}

func newMockQuoteStore(quotes ...*domain.Quote) *mockQuoteStore {
	m := &mockQuoteStore{
		quotes:        make(map[string]*domain.Quote),
		updated:       make(map[string]*domain.CreateQuoteRequest),
		statusSet:     make(map[string]domain.QuoteStatus),
		depositsPaid:  make(map[string]float64),
		magicApproved: make(map[string]string),
	}
	for _, q := range quotes {
		m.quotes[q.ID] = q
		m.list = append(m.list, *q)
	}
	return m
}

func (m *mockQuoteStore) ListQuotes(context.Context) ([]domain.Quote, error) {
	return m.list, m.listErr
}

func (m *mockQuoteStore) GetQuote(_ context.Context, id string) (*domain.Quote, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	q, ok := m.quotes[id]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "quote", ID: id}
	}
	copied := *q
	return &copied, nil
}

func (m *mockQuoteStore) CreateQuote(_ context.Context, req *domain.CreateQuoteRequest) (*domain.Quote, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.created = append(m.created, req)
	return &domain.Quote{
		ID:             "q-new",
		CustomerID:     req.CustomerID,
		PropertyID:     req.PropertyID,
		Title:          req.Title,
		Status:         domain.QuoteRequested,
		RequestDetails: req.RequestDetails,
		LineItems:      req.LineItems,
	}, nil
}

func (m *mockQuoteStore) UpdateQuote(_ context.Context, id string, req *domain.CreateQuoteRequest) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updated[id] = req
	return nil
}

func (m *mockQuoteStore) SendEstimate(_ context.Context, id string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, id)
	return nil
}

func (m *mockQuoteStore) ApproveQuote(_ context.Context, id string) error {
	m.approved = append(m.approved, id)
	return nil
}

func (m *mockQuoteStore) ApproveEstimate(_ context.Context, id, token string) error {
	if m.approveErr != nil {
		return m.approveErr
	}
	m.magicApproved[id] = token
	return nil
}

func (m *mockQuoteStore) RejectQuote(_ context.Context, id string) error {
	m.rejected = append(m.rejected, id)
	return nil
}

func (m *mockQuoteStore) SetQuoteStatus(_ context.Context, id string, status domain.QuoteStatus) error {
	m.statusSet[id] = status
	return nil
}

func (m *mockQuoteStore) PayDeposit(_ context.Context, id, _ string, amount float64) error {
	if m.payErr != nil {
		return m.payErr
	}
	m.depositsPaid[id] = amount
	if q, ok := m.quotes[id]; ok {
		q.Status = domain.QuoteDepositPaid
	}
	return nil
}

type mockJobStore struct {
	jobs      map[string]*domain.Job
	list      []domain.Job
	scheduled map[string]*domain.ScheduleJobRequest
	statusSet map[string]domain.JobStatus
	visits    map[string]*domain.VisitUpdate
	checkIns  []string

	listErr     error
	scheduleErr error
	checkInErr  error
	updateErr   error
	statusErr   error
}

func newMockJobStore(jobs ...*domain.Job) *mockJobStore {
	m := &mockJobStore{
		jobs:      make(map[string]*domain.Job),
		scheduled: make(map[string]*domain.ScheduleJobRequest),
		statusSet: make(map[string]domain.JobStatus),
		visits:    make(map[string]*domain.VisitUpdate),
	}
	for _, j := range jobs {
		m.jobs[j.ID] = j
		m.list = append(m.list, *j)
	}
	return m
}

func (m *mockJobStore) ListJobs(context.Context) ([]domain.Job, error) {
	return m.list, m.listErr
}

func (m *mockJobStore) GetJob(_ context.Context, id string) (*domain.Job, error) {
	j, ok := m.jobs[id]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "job", ID: id}
	}
	copied := *j
	return &copied, nil
}

func (m *mockJobStore) ScheduleJob(_ context.Context, id string, req *domain.ScheduleJobRequest) error {
	if m.scheduleErr != nil {
		return m.scheduleErr
	}
	m.scheduled[id] = req
	return nil
}

func (m *mockJobStore) SetJobStatus(_ context.Context, id string, status domain.JobStatus) error {
	if m.statusErr != nil {
		return m.statusErr
	}
	m.statusSet[id] = status
	if j, ok := m.jobs[id]; ok {
		j.Status = status
	}
	return nil
}

func (m *mockJobStore) CheckIn(_ context.Context, jobID, employeeID string) (*domain.JobVisit, error) {
	if m.checkInErr != nil {
		return nil, m.checkInErr
	}
	m.checkIns = append(m.checkIns, jobID)
	return &domain.JobVisit{ID: "v-new", JobID: jobID, EmployeeID: employeeID}, nil
}

func (m *mockJobStore) UpdateVisit(_ context.Context, visitID string, update *domain.VisitUpdate) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.visits[visitID] = update
	return nil
}

type mockCustomerStore struct {
	byEmail map[string]*domain.Customer

	createdCustomers  []*domain.CreateCustomerRequest
	createdProperties []*domain.CreatePropertyRequest

	searchErr   error
	createErr   error
	propertyErr error
}

func newMockCustomerStore() *mockCustomerStore {
	return &mockCustomerStore{byEmail: make(map[string]*domain.Customer)}
}

func (m *mockCustomerStore) SearchCustomerByEmail(_ context.Context, email string) (*domain.Customer, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	c, ok := m.byEmail[email]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "customer", ID: email}
	}
	return c, nil
}

func (m *mockCustomerStore) CreateCustomer(_ context.Context, req *domain.CreateCustomerRequest) (*domain.Customer, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.createdCustomers = append(m.createdCustomers, req)
	return &domain.Customer{ID: "c-new", FirstName: req.FirstName, LastName: req.LastName, Email: req.Email}, nil
}

func (m *mockCustomerStore) CreateProperty(_ context.Context, req *domain.CreatePropertyRequest) (*domain.Property, error) {
	if m.propertyErr != nil {
		return nil, m.propertyErr
	}
	m.createdProperties = append(m.createdProperties, req)
	return &domain.Property{ID: "p-new", AddressLine1: req.AddressLine1, City: req.City, State: req.State}, nil
}

type mockUserStore struct {
	users   []domain.User
	login   *domain.LoginResult
	deleted []string

	listErr  error
	loginErr error
}

func (m *mockUserStore) Login(context.Context, *domain.LoginRequest) (*domain.LoginResult, error) {
	return m.login, m.loginErr
}

func (m *mockUserStore) ChangePassword(context.Context, *domain.ChangePasswordRequest) error {
	return nil
}

func (m *mockUserStore) ListUsers(context.Context) ([]domain.User, error) {
	return m.users, m.listErr
}

func (m *mockUserStore) CreateUser(_ context.Context, req *domain.UserRequest) (*domain.User, error) {
	return &domain.User{ID: "u-new", FirstName: req.FirstName, Email: req.Email, Role: req.Role}, nil
}

func (m *mockUserStore) UpdateUser(_ context.Context, id string, req *domain.UserRequest) (*domain.User, error) {
	return &domain.User{ID: id, FirstName: req.FirstName, Email: req.Email, Role: req.Role}, nil
}

func (m *mockUserStore) DeleteUser(_ context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

type mockContentStore struct {
	pages     []domain.ServicePage
	listCalls int
	listErr   error
}

func (m *mockContentStore) ListPages(context.Context) ([]domain.ServicePage, error) {
	m.listCalls++
	return m.pages, m.listErr
}

func (m *mockContentStore) GetPageBySlug(_ context.Context, slug string) (*domain.ServicePage, error) {
	for i := range m.pages {
		if m.pages[i].PageSlug == slug {
			return &m.pages[i], nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "page", ID: slug}
}

func (m *mockContentStore) CreatePage(_ context.Context, req *domain.SavePageRequest) (*domain.ServicePage, error) {
	page := domain.ServicePage{ID: "pg-new", PageSlug: req.PageSlug, Title: req.Title}
	m.pages = append(m.pages, page)
	return &page, nil
}

func (m *mockContentStore) UpdatePage(_ context.Context, slug string, req *domain.SavePageRequest) (*domain.ServicePage, error) {
	return &domain.ServicePage{ID: "pg-1", PageSlug: slug, Title: req.Title}, nil
}

type mockIntenter struct {
	response *domain.PaymentIntentResponse
	err      error
	requests []*domain.PaymentIntentRequest
}

func (m *mockIntenter) CreatePaymentIntent(_ context.Context, req *domain.PaymentIntentRequest) (*domain.PaymentIntentResponse, error) {
	m.requests = append(m.requests, req)
	return m.response, m.err
}

type mockConfirmer struct {
	confirmation *domain.PaymentConfirmation
	err          error
	calls        int
}

func (m *mockConfirmer) ConfirmPayment(context.Context, string, string) (*domain.PaymentConfirmation, error) {
	m.calls++
	return m.confirmation, m.err
}

type mockFileStore struct {
	url string
	err error
}

func (m *mockFileStore) Upload(_ context.Context, _, _ string, _ io.Reader) (string, error) {
	return m.url, m.err
}
