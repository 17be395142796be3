package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"golang.org/x/text/language"

	"signup/internal/account/handler/mocks"
	"signup/internal/account/models"
	"signup/internal/account/service"
	dErrors "signup/pkg/domain-errors"
	"signup/pkg/testutil"
)

type HandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *mocks.MockService
	router  chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = mocks.NewMockService(s.ctrl)
	s.router = chi.NewRouter()
	New(s.service, nil, language.English).Register(s.router)
}

func (s *HandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *HandlerSuite) post(body any) *http.Request {
	return testutil.NewJSONRequest(s.T(), http.MethodPost, "/register", body)
}

func (s *HandlerSuite) TestSuccess() {
	s.service.EXPECT().Register(gomock.Any(), gomock.Any(), language.English).
		DoAndReturn(func(_ context.Context, req models.RegistrationRequest, _ language.Tag) (*service.Outcome, error) {
			s.Equal("user1", *req.Username)
			s.Equal("user1@mail.com", *req.Email)
			s.Equal("P4ssword", *req.Password)
			return &service.Outcome{Kind: service.OutcomeSuccess, Message: "User created"}, nil
		})

	rr := testutil.DoRequest(s.router, s.post(map[string]string{
		"username": "user1",
		"email":    "user1@mail.com",
		"password": "P4ssword",
	}))
	testutil.AssertMessage(s.T(), rr, "User created")
	s.Equal("application/json", rr.Header().Get("Content-Type"))
}

func (s *HandlerSuite) TestAbsentAndNullFieldsReachServiceAsNil() {
	s.service.EXPECT().Register(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req models.RegistrationRequest, _ language.Tag) (*service.Outcome, error) {
			s.Nil(req.Username)
			s.Nil(req.Email)
			s.Require().NotNil(req.Password)
			s.Empty(*req.Password)
			return &service.Outcome{Kind: service.OutcomeValidationFailed, ValidationErrors: map[string]string{"username": "x"}}, nil
		})

	rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPost, "/register",
		`{"email": null, "password": ""}`))
	testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
}

func (s *HandlerSuite) TestValidationFailure() {
	errs := map[string]string{
		"username": "Username cannot be null",
		"email":    "Email is not valid",
	}
	s.service.EXPECT().Register(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&service.Outcome{Kind: service.OutcomeValidationFailed, ValidationErrors: errs}, nil)

	rr := testutil.DoRequest(s.router, s.post(map[string]string{"email": "email.com"}))
	testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	s.Equal(errs, testutil.ValidationErrors(s.T(), rr))
}

func (s *HandlerSuite) TestNegotiatedLocaleIsPassedThrough() {
	s.service.EXPECT().Register(gomock.Any(), gomock.Any(), language.Thai).
		Return(&service.Outcome{Kind: service.OutcomeSuccess, Message: "ok"}, nil)

	req := testutil.WithLocale(s.post(map[string]string{}), language.Thai)
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
}

func (s *HandlerSuite) TestMalformedBody() {
	cases := map[string]string{
		"truncated json": `{"username": "user1"`,
		"wrong type":     `{"username": 42}`,
		"not an object":  `["user1"]`,
	}
	for name, body := range cases {
		s.Run(name, func() {
			rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPost, "/register", body))
			testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
		})
	}
}

func (s *HandlerSuite) TestEmptyBodyReachesServiceAsAllNil() {
	s.service.EXPECT().Register(gomock.Any(), models.RegistrationRequest{}, gomock.Any()).
		Return(&service.Outcome{Kind: service.OutcomeValidationFailed, ValidationErrors: map[string]string{"username": "x"}}, nil)

	rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPost, "/register", ``))
	testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	s.Equal(map[string]string{"username": "x"}, testutil.ValidationErrors(s.T(), rr))
}

func (s *HandlerSuite) TestInternalFailureHidesCause() {
	cause := fmt.Errorf("%w: %w", service.ErrPersistence, errors.New("pq: connection refused to 10.0.0.5"))
	s.service.EXPECT().Register(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, dErrors.Wrap(cause, dErrors.CodeInternal, "failed to persist account"))

	req := testutil.WithRequestID(s.post(map[string]string{"username": "user1"}), "req-42")
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatusAndError(s.T(), rr, http.StatusInternalServerError, "internal_error")
	s.NotContains(rr.Body.String(), "10.0.0.5")
	s.NotContains(rr.Body.String(), "persist")
}

func (s *HandlerSuite) TestOnlyPostIsRouted() {
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/register", nil))
	testutil.AssertStatus(s.T(), rr, http.StatusMethodNotAllowed)
}
