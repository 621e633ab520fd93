package trialbalance

import (
	"reflect"

	"go.uber.org/mock/gomock"

	"github.com/cleared-dev/finsynth/internal/model"
)

// MockClassifier is a hand-written gomock double for Classifier.
type MockClassifier struct {
	ctrl     *gomock.Controller
	recorder *MockClassifierMockRecorder
}

// MockClassifierMockRecorder records expected Classify calls.
type MockClassifierMockRecorder struct {
	mock *MockClassifier
}

func NewMockClassifier(ctrl *gomock.Controller) *MockClassifier {
	mock := &MockClassifier{ctrl: ctrl}
	mock.recorder = &MockClassifierMockRecorder{mock}
	return mock
}

func (m *MockClassifier) EXPECT() *MockClassifierMockRecorder {
	return m.recorder
}

func (m *MockClassifier) Classify(code, name string) model.Classification {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Classify", code, name)
	ret0, _ := ret[0].(model.Classification)
	return ret0
}

func (mr *MockClassifierMockRecorder) Classify(code, name any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Classify", reflect.TypeOf((*MockClassifier)(nil).Classify), code, name)
}
