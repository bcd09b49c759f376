package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"
	"github.com/xuri/excelize/v2"

	"pcs/src/config"
	"pcs/src/lib"
	"pcs/src/models"
	"pcs/src/services"
	"pcs/src/store/memstore"
	"pcs/src/types"
)

type APITestSuite struct {
	suite.Suite
	router *gin.Engine
	app    *application

	adminToken    string
	staffToken    string
	techToken     string
	customerToken string
}

func newTestApplication() *application {
	bookings, cancellations := memstore.New()
	notifications := memstore.NewNotifications()
	svc := &services.BookingService{
		Bookings:           bookings,
		Cancellations:      cancellations,
		OfficeEmail:        config.OfficeEmail(),
		Log:                zerolog.Nop(),
		TechnicianStatuses: services.DefaultTechnicianStatuses(),
	}
	return &application{
		bookings:      svc,
		contacts:      memstore.NewContacts(),
		notifications: notifications,
		officeEmail:   config.OfficeEmail(),
		log:           zerolog.Nop(),
	}
}

func generateTestJWT(id uint, email string, role types.Role) string {
	claims := &types.Claims{
		Email: email,
		Role:  string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(int(id)),
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, _ := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	return signed
}

func (s *APITestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.app = newTestApplication()
	s.router = setupRouter(s.app)

	s.adminToken = generateTestJWT(1, "admin@pestaway.example", types.ROLE_ADMIN)
	s.staffToken = generateTestJWT(2, "staff@pestaway.example", types.ROLE_STAFF)
	s.techToken = generateTestJWT(3, "tech@pestaway.example", types.ROLE_TECHNICIAN)
	s.customerToken = generateTestJWT(4, "maria@example.com", types.ROLE_CUSTOMER)
}

func (s *APITestSuite) do(method, path, token, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req, _ := http.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func bookingPayload() string {
	scheduled := time.Now().Add(72 * time.Hour).Format(config.TIME_PARSE_FORMAT)
	return fmt.Sprintf(`{
		"customer_name": "Maria Santos",
		"customer_email": "maria@example.com",
		"customer_phone": "09171234567",
		"service_type": "termite",
		"property_size": "medium",
		"scheduled_at": %q,
		"address": "12 Mabini St, Quezon City",
		"postcode": "1100"
	}`, scheduled)
}

func (s *APITestSuite) createBooking(token string) int64 {
	w := s.do("POST", "/api/v1/bookings", token, bookingPayload())
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	return gjson.Get(w.Body.String(), "data.id").Int()
}

func (s *APITestSuite) TestHealthz() {
	w := s.do("GET", "/healthz", "", "")
	s.Equal(http.StatusOK, w.Code)
	s.Equal("ok", gjson.Get(w.Body.String(), "status").String())
}

func (s *APITestSuite) TestMetricsEndpoint() {
	w := s.do("GET", "/metrics", "", "")
	s.Equal(http.StatusOK, w.Code)
}

func (s *APITestSuite) TestServiceCatalog() {
	w := s.do("GET", "/api/v1/services", "", "")
	s.Require().Equal(http.StatusOK, w.Code)
	entries := gjson.Get(w.Body.String(), "data").Array()
	s.Len(entries, 6)

	slug := entries[0].Get("slug").String()
	w = s.do("GET", "/api/v1/services/"+slug, "", "")
	s.Equal(http.StatusOK, w.Code)

	w = s.do("GET", "/api/v1/services/not-a-service", "", "")
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *APITestSuite) TestCreateBookingAnonymous() {
	w := s.do("POST", "/api/v1/bookings", "", bookingPayload())
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	body := w.Body.String()
	s.Positive(gjson.Get(body, "data.id").Int())
	s.Equal("pending", gjson.Get(body, "data.status").String())
	s.False(gjson.Get(body, "data.address").Exists())
}

func (s *APITestSuite) TestCreateBookingValidation() {
	payload := `{
		"customer_name": "Maria Santos",
		"customer_email": "not-an-email",
		"customer_phone": "12345",
		"service_type": "exorcism",
		"property_size": "medium",
		"scheduled_at": "2020-01-01 09:00:00 +08:00",
		"address": "12 Mabini St"
	}`
	w := s.do("POST", "/api/v1/bookings", "", payload)
	s.Require().Equal(http.StatusBadRequest, w.Code)
	body := w.Body.String()
	s.Equal("validation_error", gjson.Get(body, "error.code").String())
	s.GreaterOrEqual(len(gjson.Get(body, "error.fields").Array()), 4)
}

func (s *APITestSuite) TestBookingsRequireAuth() {
	w := s.do("GET", "/api/v1/bookings", "", "")
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("authentication_error", gjson.Get(w.Body.String(), "error.code").String())
}

func (s *APITestSuite) TestInvalidTokenRejected() {
	w := s.do("GET", "/api/v1/bookings", "not.a.token", "")
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *APITestSuite) TestLifecycleOverHTTP() {
	id := s.createBooking(s.customerToken)

	w := s.do("PUT", fmt.Sprintf("/api/v1/bookings/%d/status", id), s.staffToken, `{"new_status":"confirmed"}`)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Equal("confirmed", gjson.Get(w.Body.String(), "data.status").String())

	w = s.do("PUT", fmt.Sprintf("/api/v1/admin/bookings/%d/assign", id), s.adminToken, `{"technician_id":3,"price":8000}`)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.EqualValues(3, gjson.Get(w.Body.String(), "data.technician_id").Int())

	w = s.do("PUT", fmt.Sprintf("/api/v1/bookings/%d/status", id), s.techToken, `{"new_status":"in-progress"}`)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.do("PUT", fmt.Sprintf("/api/v1/bookings/%d/status", id), s.techToken, `{"new_status":"completed","note":"done"}`)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Equal("completed", gjson.Get(w.Body.String(), "data.status").String())

	w = s.do("POST", fmt.Sprintf("/api/v1/bookings/%d/rating", id), s.customerToken, `{"rating":5}`)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.EqualValues(5, gjson.Get(w.Body.String(), "data.rating").Int())
}

func (s *APITestSuite) TestInvalidTransitionOverHTTP() {
	id := s.createBooking(s.customerToken)
	w := s.do("PUT", fmt.Sprintf("/api/v1/bookings/%d/status", id), s.staffToken, `{"new_status":"pending"}`)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("invalid_transition", gjson.Get(w.Body.String(), "error.code").String())
}

func (s *APITestSuite) TestCustomerCannotChangeStatus() {
	id := s.createBooking(s.customerToken)
	w := s.do("PUT", fmt.Sprintf("/api/v1/bookings/%d/status", id), s.customerToken, `{"new_status":"confirmed"}`)
	s.Equal(http.StatusForbidden, w.Code)
	s.Equal("authorization_error", gjson.Get(w.Body.String(), "error.code").String())
}

func (s *APITestSuite) TestScopeMaskingOverHTTP() {
	id := s.createBooking(s.customerToken)
	otherCustomer := generateTestJWT(9, "other@example.com", types.ROLE_CUSTOMER)

	w := s.do("GET", fmt.Sprintf("/api/v1/bookings/%d", id), otherCustomer, "")
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("not_found", gjson.Get(w.Body.String(), "error.code").String())

	w = s.do("GET", fmt.Sprintf("/api/v1/bookings/%d", id), s.customerToken, "")
	s.Equal(http.StatusOK, w.Code)
}

func (s *APITestSuite) TestCancellationWorkflowOverHTTP() {
	id := s.createBooking(s.customerToken)

	w := s.do("POST", fmt.Sprintf("/api/v1/bookings/%d/cancel", id), s.customerToken, `{"reason":"change of plans"}`)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	requestID := gjson.Get(w.Body.String(), "data.id").String()
	s.NotEmpty(requestID)

	w = s.do("POST", fmt.Sprintf("/api/v1/bookings/%d/cancel", id), s.customerToken, `{"reason":"again"}`)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("duplicate_request", gjson.Get(w.Body.String(), "error.code").String())

	w = s.do("GET", "/api/v1/admin/cancellations?status=pending", s.adminToken, "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.EqualValues(1, gjson.Get(w.Body.String(), "count").Int())

	w = s.do("PUT", "/api/v1/admin/cancellations/"+requestID, s.adminToken, `{"approve":true,"note":"refund issued"}`)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Equal("approved", gjson.Get(w.Body.String(), "data.status").String())

	w = s.do("GET", fmt.Sprintf("/api/v1/bookings/%d", id), s.customerToken, "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("canceled", gjson.Get(w.Body.String(), "data.status").String())

	w = s.do("PUT", "/api/v1/admin/cancellations/"+requestID, s.adminToken, `{"approve":false}`)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("already_processed", gjson.Get(w.Body.String(), "error.code").String())
}

func (s *APITestSuite) TestOnlyCustomerRequestsCancellation() {
	id := s.createBooking(s.customerToken)
	for _, token := range []string{s.adminToken, s.staffToken, s.techToken} {
		w := s.do("POST", fmt.Sprintf("/api/v1/bookings/%d/cancel", id), token, `{"reason":"on their behalf"}`)
		s.Equal(http.StatusForbidden, w.Code)
		s.Equal("authorization_error", gjson.Get(w.Body.String(), "error.code").String())
	}
}

func (s *APITestSuite) TestStaffCannotProcessCancellation() {
	id := s.createBooking(s.customerToken)
	w := s.do("POST", fmt.Sprintf("/api/v1/bookings/%d/cancel", id), s.customerToken, `{"reason":"nope"}`)
	s.Require().Equal(http.StatusCreated, w.Code)
	requestID := gjson.Get(w.Body.String(), "data.id").String()

	w = s.do("PUT", "/api/v1/admin/cancellations/"+requestID, s.staffToken, `{"approve":true}`)
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *APITestSuite) TestAdminRoutesGated() {
	w := s.do("GET", "/api/v1/admin/stats", s.customerToken, "")
	s.Equal(http.StatusForbidden, w.Code)

	w = s.do("GET", "/api/v1/admin/stats", s.techToken, "")
	s.Equal(http.StatusForbidden, w.Code)

	w = s.do("GET", "/api/v1/admin/stats", s.adminToken, "")
	s.Equal(http.StatusOK, w.Code)
}

func (s *APITestSuite) TestStats() {
	s.createBooking(s.customerToken)
	s.createBooking(s.customerToken)

	w := s.do("GET", "/api/v1/admin/stats", s.staffToken, "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.EqualValues(2, gjson.Get(w.Body.String(), "data.pending").Int())
}

func (s *APITestSuite) TestExportBookings() {
	s.createBooking(s.customerToken)
	w := s.do("GET", "/api/v1/admin/bookings/export", s.adminToken, "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Header().Get("Content-Type"), "spreadsheetml")
	s.NotEmpty(w.Body.Bytes())
}

func (s *APITestSuite) TestExportSpansPages() {
	ctx := context.Background()
	for i := 0; i < exportPageSize+5; i++ {
		scheduled := time.Now().Add(time.Duration(i+1) * time.Hour)
		b := &models.Booking{
			CustomerName:  "Maria Santos",
			CustomerEmail: "maria@example.com",
			ScheduledAt:   &scheduled,
			Status:        types.BOOKING_PENDING,
		}
		s.Require().NoError(s.app.bookings.Bookings.Create(ctx, b))
	}

	w := s.do("GET", "/api/v1/admin/bookings/export", s.adminToken, "")
	s.Require().Equal(http.StatusOK, w.Code)

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	s.Require().NoError(err)
	defer f.Close()
	rows, err := f.GetRows("Bookings")
	s.Require().NoError(err)
	s.Len(rows, exportPageSize+6)
}

func (s *APITestSuite) TestContactFlow() {
	payload := `{"name":"Juan Cruz","email":"juan@example.com","message":"Do you treat termites in Makati?"}`
	w := s.do("POST", "/api/v1/contact", "", payload)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	id := gjson.Get(w.Body.String(), "data.id").Int()
	s.Positive(id)

	w = s.do("GET", "/api/v1/admin/contacts?unread=true", s.adminToken, "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.EqualValues(1, gjson.Get(w.Body.String(), "count").Int())

	w = s.do("PUT", fmt.Sprintf("/api/v1/admin/contacts/%d/read", id), s.adminToken, "")
	s.Equal(http.StatusNoContent, w.Code)

	w = s.do("GET", "/api/v1/admin/contacts?unread=true", s.adminToken, "")
	s.EqualValues(0, gjson.Get(w.Body.String(), "count").Int())
}

func (s *APITestSuite) TestListPagination() {
	for i := 0; i < 3; i++ {
		s.createBooking(s.customerToken)
	}
	w := s.do("GET", "/api/v1/bookings?page=1&per_page=2", s.adminToken, "")
	s.Require().Equal(http.StatusOK, w.Code)
	body := w.Body.String()
	s.Len(gjson.Get(body, "data").Array(), 2)
	s.EqualValues(3, gjson.Get(body, "count").Int())
}

func (s *APITestSuite) TestLogoutRevokesToken() {
	mr := miniredis.RunT(s.T())
	lib.NewRedisClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	defer lib.NewRedisClient(nil)

	w := s.do("GET", "/api/v1/bookings", s.customerToken, "")
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.do("POST", "/api/v1/logout", s.customerToken, "")
	s.Require().Equal(http.StatusNoContent, w.Code)

	w = s.do("GET", "/api/v1/bookings", s.customerToken, "")
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("authentication_error", gjson.Get(w.Body.String(), "error.code").String())
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}
