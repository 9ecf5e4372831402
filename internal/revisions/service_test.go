package revisions

import (
	"testing"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) CreateTicket(ticket *Ticket) error {
	args := m.Called(ticket)
	return args.Error(0)
}

func (m *MockTicketRepository) GetTicket(id int) (*Ticket, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Ticket), args.Error(1)
}

func (m *MockTicketRepository) GetTickets(status string, limit, offset int) ([]Ticket, error) {
	args := m.Called(status, limit, offset)
	return args.Get(0).([]Ticket), args.Error(1)
}

func (m *MockTicketRepository) UpdateTicketStatus(tx *goqu.TxDatabase, ticketID int, status string, decidedBy *int, notes *string) error {
	args := m.Called(tx, ticketID, status, decidedBy, notes)
	return args.Error(0)
}

func (m *MockTicketRepository) ApplyChange(tx *goqu.TxDatabase, ticket *Ticket) error {
	args := m.Called(tx, ticket)
	return args.Error(0)
}

func TestCreateTicket(t *testing.T) {
	mockRepo := new(MockTicketRepository)
	service := &Service{repository: mockRepo}

	req := CreateTicketRequest{
		TargetType: TargetLineItem,
		TargetID:   3,
		Field:      "quantity",
		NewValue:   "250",
		Reason:     "customer increased the order",
	}

	mockRepo.On("CreateTicket", mock.AnythingOfType("*revisions.Ticket")).Return(nil).Once()

	ticket, err := service.CreateTicket(req, 4)

	assert.NoError(t, err)
	assert.Equal(t, StatusDraft, ticket.Status)
	assert.Equal(t, 4, ticket.RequestedBy)
	assert.Equal(t, "quantity", ticket.Field)
	mockRepo.AssertExpectations(t)
}

func TestCreateTicketValidation(t *testing.T) {
	tests := []struct {
		name       string
		targetType string
		field      string
		wantErr    error
	}{
		{"unknown target", "user", "role", ErrInvalidTarget},
		{"order status is off limits", TargetOrder, "status", ErrFieldNotAllowed},
		{"order number is off limits", TargetOrder, "order_number", ErrFieldNotAllowed},
		{"line item id is off limits", TargetLineItem, "id", ErrFieldNotAllowed},
		{"product code is off limits", TargetLineItem, "product_code", ErrFieldNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTicketRepository)
			service := &Service{repository: mockRepo}

			req := CreateTicketRequest{
				TargetType: tt.targetType,
				TargetID:   1,
				Field:      tt.field,
				NewValue:   "x",
				Reason:     "r",
			}

			_, err := service.CreateTicket(req, 4)

			assert.ErrorIs(t, err, tt.wantErr)
			mockRepo.AssertNotCalled(t, "CreateTicket", mock.Anything)
		})
	}
}

func TestSubmitTicketOwnerOnly(t *testing.T) {
	mockRepo := new(MockTicketRepository)
	service := &Service{repository: mockRepo}

	mockRepo.On("GetTicket", 1).Return(&Ticket{ID: 1, Status: StatusDraft, RequestedBy: 4}, nil).Once()

	_, err := service.SubmitTicket(1, 9)

	assert.ErrorIs(t, err, ErrNotTicketOwner)
	mockRepo.AssertNotCalled(t, "UpdateTicketStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitTicketAlreadySubmitted(t *testing.T) {
	mockRepo := new(MockTicketRepository)
	service := &Service{repository: mockRepo}

	mockRepo.On("GetTicket", 1).Return(&Ticket{ID: 1, Status: StatusSubmitted, RequestedBy: 4}, nil).Once()

	_, err := service.SubmitTicket(1, 4)

	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestDecisionRequiresSubmittedTicket(t *testing.T) {
	for _, status := range []string{StatusDraft, StatusApproved, StatusRejected} {
		mockRepo := new(MockTicketRepository)
		service := &Service{repository: mockRepo}

		mockRepo.On("GetTicket", 1).Return(&Ticket{ID: 1, Status: status, RequestedBy: 4}, nil).Twice()

		_, err := service.ApproveTicket(1, 8, nil)
		assert.ErrorIs(t, err, ErrInvalidTransition, "approve from %s", status)

		_, err = service.RejectTicket(1, 8, nil)
		assert.ErrorIs(t, err, ErrInvalidTransition, "reject from %s", status)

		mockRepo.AssertNotCalled(t, "ApplyChange", mock.Anything, mock.Anything)
		mockRepo.AssertNotCalled(t, "UpdateTicketStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	}
}

func TestMarkDecided(t *testing.T) {
	notes := "stock recount confirmed"
	at := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	ticket := &Ticket{ID: 1, Status: StatusSubmitted, RequestedBy: 4}
	ticket.markDecided(StatusApproved, 8, &notes, at)

	assert.Equal(t, StatusApproved, ticket.Status)
	assert.Equal(t, 8, *ticket.DecidedBy)
	assert.Equal(t, at, *ticket.DecidedAt)
	assert.Equal(t, notes, *ticket.DecisionNotes)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, canTransition(StatusDraft, StatusSubmitted))
	assert.True(t, canTransition(StatusSubmitted, StatusApproved))
	assert.True(t, canTransition(StatusSubmitted, StatusRejected))

	assert.False(t, canTransition(StatusDraft, StatusApproved))
	assert.False(t, canTransition(StatusApproved, StatusSubmitted))
	assert.False(t, canTransition(StatusRejected, StatusSubmitted))
	assert.False(t, canTransition(StatusApproved, StatusRejected))
}
