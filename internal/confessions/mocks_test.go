package confessions_test

import (
	"github.com/stretchr/testify/mock"

	"whisperwall/backend/internal/models"
)

// mockStorage is a testify mock of the storage.Storage interface.
type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) SaveConfession(confession *models.Confession) error {
	args := m.Called(confession)
	return args.Error(0)
}

func (m *mockStorage) GetConfession(id string) (*models.Confession, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Confession), args.Error(1)
}

func (m *mockStorage) ListConfessions() ([]models.Confession, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Confession), args.Error(1)
}

func (m *mockStorage) ListTrending(limit int) ([]models.Confession, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Confession), args.Error(1)
}

func (m *mockStorage) DeleteConfession(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *mockStorage) MarkConfessionReported(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *mockStorage) AddReply(reply *models.Reply) error {
	args := m.Called(reply)
	return args.Error(0)
}

func (m *mockStorage) VoteConfession(id string, upvote bool) error {
	args := m.Called(id, upvote)
	return args.Error(0)
}

func (m *mockStorage) VoteReply(id string, upvote bool) error {
	args := m.Called(id, upvote)
	return args.Error(0)
}

func (m *mockStorage) SaveReport(report *models.Report) error {
	args := m.Called(report)
	return args.Error(0)
}

func (m *mockStorage) ListOpenReports() ([]models.Report, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Report), args.Error(1)
}

func (m *mockStorage) ResolveReport(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *mockStorage) SaveChatSession(session *models.ChatSession) error {
	args := m.Called(session)
	return args.Error(0)
}
