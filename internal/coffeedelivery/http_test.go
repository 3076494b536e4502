package coffeedelivery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	"github.com/SpringMicroservicesCourse/more-complex-controller-demo/internal/domain"
	"github.com/SpringMicroservicesCourse/more-complex-controller-demo/internal/test"
	"github.com/SpringMicroservicesCourse/more-complex-controller-demo/pkg/errorspkg"
	"github.com/SpringMicroservicesCourse/more-complex-controller-demo/pkg/moneypkg"
	"github.com/SpringMicroservicesCourse/more-complex-controller-demo/pkg/web"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		web.RegisterFieldNames(v)
	}

	os.Exit(m.Run())
}

var compareDecimals = cmp.Comparer(func(a, b decimal.Decimal) bool {
	return a.Equal(b)
})

func setupRouter(t *testing.T, service Service) *gin.Engine {
	t.Helper()

	handler := NewHandler(service, moneypkg.NewCodec(language.Und))

	router := gin.New()
	router.POST("/coffee/", handler.Create)
	router.POST("/coffee/batch", handler.BatchCreate)
	router.GET("/coffee/", handler.List)
	router.GET("/coffee/:id", handler.Get)

	return router
}

func decodeEnvelope(t *testing.T, body *bytes.Buffer) web.ErrorResponse {
	t.Helper()

	var res web.ErrorResponse
	if err := json.NewDecoder(body).Decode(&res); err != nil {
		t.Fatalf("decoding error envelope: %v", err)
	}

	return res
}

func TestCreate(t *testing.T) {
	coffee := test.RandomCoffee()
	price := moneypkg.New(moneypkg.DefaultCurrency, decimal.RequireFromString("125.00"))

	type requestBody struct {
		Name  string `json:"name"`
		Price string `json:"price"`
	}

	testCases := []struct {
		name           string
		requestBody    requestBody
		buildStubs     func(service *MockService)
		wantStatusCode int
		checkResponse  func(t *testing.T, recorder *httptest.ResponseRecorder)
	}{
		{
			name:        "OK",
			requestBody: requestBody{Name: coffee.Name, Price: "125.00"},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Create(gomock.Any(), gomock.Eq(coffee.Name), gomock.Eq(price)).
					Times(1).
					Return(coffee, nil)
			},
			wantStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				var res struct {
					Data struct {
						Coffee domain.Coffee `json:"coffee"`
					} `json:"data"`
				}
				if err := json.NewDecoder(recorder.Body).Decode(&res); err != nil {
					t.Fatalf("decoding response: %v", err)
				}

				compareCreatedAt := cmpopts.EquateApproxTime(time.Second)
				if diff := cmp.Diff(coffee, res.Data.Coffee, compareCreatedAt, compareDecimals); diff != "" {
					t.Errorf("res.Data.Coffee mismatch (-want +got):\n%s", diff)
				}
			},
		},
		{
			name:        "EmptyName",
			requestBody: requestBody{Price: "125.00"},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Create(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				res := decodeEnvelope(t, recorder.Body)

				if res.Status != http.StatusBadRequest || res.Error != "Bad Request" {
					t.Errorf("envelope status=%d error=%q, want 400 Bad Request", res.Status, res.Error)
				}

				if !strings.HasSuffix(res.Message, "Error count: 1") {
					t.Errorf("res.Message=%q, want suffix 'Error count: 1'", res.Message)
				}

				if len(res.Errors) != 1 {
					t.Fatalf("len(res.Errors)=%d, want 1", len(res.Errors))
				}

				violation := res.Errors[0]
				if violation.Field != "name" || violation.Code != "NotEmpty" || violation.BindingFailure {
					t.Errorf("violation=%+v, want field=name code=NotEmpty bindingFailure=false", violation)
				}
			},
		},
		{
			name:        "MalformedPrice",
			requestBody: requestBody{Name: coffee.Name, Price: "XXX"},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Create(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				res := decodeEnvelope(t, recorder.Body)

				if len(res.Errors) != 1 {
					t.Fatalf("len(res.Errors)=%d, want 1", len(res.Errors))
				}

				violation := res.Errors[0]
				if violation.Field != "price" || violation.Code != "typeMismatch" || !violation.BindingFailure {
					t.Errorf("violation=%+v, want field=price code=typeMismatch bindingFailure=true", violation)
				}

				if violation.RejectedValue != "XXX" {
					t.Errorf("violation.RejectedValue=%v, want XXX", violation.RejectedValue)
				}

				if !strings.Contains(violation.DefaultMessage, "'String'") ||
					!strings.Contains(violation.DefaultMessage, "'Money'") {
					t.Errorf("violation.DefaultMessage=%q, want source and target type names", violation.DefaultMessage)
				}
			},
		},
		{
			name:        "EmptyNameAndMalformedPrice",
			requestBody: requestBody{Price: "not money"},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Create(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				res := decodeEnvelope(t, recorder.Body)

				if len(res.Errors) != 2 {
					t.Fatalf("len(res.Errors)=%d, want 2", len(res.Errors))
				}

				if !strings.HasSuffix(res.Message, "Error count: 2") {
					t.Errorf("res.Message=%q, want suffix 'Error count: 2'", res.Message)
				}

				if res.Errors[0].Code != "NotEmpty" || res.Errors[1].Code != "typeMismatch" {
					t.Errorf("violation codes=[%s %s], want [NotEmpty typeMismatch]",
						res.Errors[0].Code, res.Errors[1].Code)
				}
			},
		},
		{
			name:        "ErrCoffeeAlreadyExists",
			requestBody: requestBody{Name: coffee.Name, Price: "125.00"},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Create(gomock.Any(), gomock.Eq(coffee.Name), gomock.Eq(price)).
					Times(1).
					Return(domain.Coffee{}, domain.ErrCoffeeAlreadyExists)
			},
			wantStatusCode: http.StatusConflict,
		},
		{
			name:        "InternalError",
			requestBody: requestBody{Name: coffee.Name, Price: "125.00"},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Create(gomock.Any(), gomock.Eq(coffee.Name), gomock.Eq(price)).
					Times(1).
					Return(domain.Coffee{}, errorspkg.ErrInternal)
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := NewMockService(ctrl)
			tc.buildStubs(service)

			router := setupRouter(t, service)

			body, err := json.Marshal(tc.requestBody)
			if err != nil {
				t.Fatalf("marshaling request body: %v", err)
			}

			req := httptest.NewRequest(http.MethodPost, "/coffee/", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, req)

			if recorder.Code != tc.wantStatusCode {
				t.Errorf("status code=%d, want %d, body=%s", recorder.Code, tc.wantStatusCode, recorder.Body)
			}

			if tc.checkResponse != nil {
				tc.checkResponse(t, recorder)
			}
		})
	}
}

func TestCreateFromForm(t *testing.T) {
	coffee := test.RandomCoffee()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	price := moneypkg.New("TWD", decimal.RequireFromString("125.00"))

	service := NewMockService(ctrl)
	service.EXPECT().
		Create(gomock.Any(), gomock.Eq(coffee.Name), gomock.Eq(price)).
		Times(1).
		Return(coffee, nil)

	router := setupRouter(t, service)

	form := url.Values{}
	form.Set("name", coffee.Name)
	form.Set("price", "TWD 125.00")

	req := httptest.NewRequest(http.MethodPost, "/coffee/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Errorf("status code=%d, want %d, body=%s", recorder.Code, http.StatusOK, recorder.Body)
	}
}

func TestBatchCreate(t *testing.T) {
	makeBody := func(t *testing.T, lines string) (*bytes.Buffer, string) {
		t.Helper()

		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)

		part, err := writer.CreateFormFile("file", "coffees.txt")
		if err != nil {
			t.Fatalf("creating form file: %v", err)
		}

		if _, err := part.Write([]byte(lines)); err != nil {
			t.Fatalf("writing form file: %v", err)
		}

		if err := writer.Close(); err != nil {
			t.Fatalf("closing multipart writer: %v", err)
		}

		return body, writer.FormDataContentType()
	}

	testCases := []struct {
		name           string
		lines          string
		buildStubs     func(service *MockService)
		wantStatusCode int
	}{
		{
			name:  "OK",
			lines: "espresso 100.00\nlatte TWD 125.00\n",
			buildStubs: func(service *MockService) {
				want := []domain.CreateCoffeeParams{
					{Name: "espresso", Price: moneypkg.New("TWD", decimal.RequireFromString("100.00"))},
					{Name: "latte", Price: moneypkg.New("TWD", decimal.RequireFromString("125.00"))},
				}

				service.EXPECT().
					BatchCreate(gomock.Any(), gomock.Eq(want)).
					Times(1).
					Return([]domain.Coffee{test.RandomCoffee(), test.RandomCoffee()}, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:  "MalformedLinesAreSkipped",
			lines: "espresso 100.00\nbroken\nmocha notmoney\n",
			buildStubs: func(service *MockService) {
				want := []domain.CreateCoffeeParams{
					{Name: "espresso", Price: moneypkg.New("TWD", decimal.RequireFromString("100.00"))},
				}

				service.EXPECT().
					BatchCreate(gomock.Any(), gomock.Eq(want)).
					Times(1).
					Return([]domain.Coffee{test.RandomCoffee()}, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:  "AllLinesMalformed",
			lines: "broken\nalso broken here\n",
			buildStubs: func(service *MockService) {
				service.EXPECT().
					BatchCreate(gomock.Any(), gomock.Any()).
					Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := NewMockService(ctrl)
			tc.buildStubs(service)

			router := setupRouter(t, service)

			body, contentType := makeBody(t, tc.lines)

			req := httptest.NewRequest(http.MethodPost, "/coffee/batch", body)
			req.Header.Set("Content-Type", contentType)

			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, req)

			if recorder.Code != tc.wantStatusCode {
				t.Errorf("status code=%d, want %d, body=%s", recorder.Code, tc.wantStatusCode, recorder.Body)
			}
		})
	}
}

func TestGet(t *testing.T) {
	coffee := test.RandomCoffee()

	testCases := []struct {
		name           string
		url            string
		buildStubs     func(service *MockService)
		wantStatusCode int
	}{
		{
			name: "OK",
			url:  fmt.Sprintf("/coffee/%d", coffee.ID),
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Get(gomock.Any(), gomock.Eq(coffee.ID)).
					Times(1).
					Return(coffee, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "InvalidID",
			url:  "/coffee/0",
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "NotFound",
			url:  fmt.Sprintf("/coffee/%d", coffee.ID),
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Get(gomock.Any(), gomock.Eq(coffee.ID)).
					Times(1).
					Return(domain.Coffee{}, domain.ErrCoffeeNotFound)
			},
			wantStatusCode: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := NewMockService(ctrl)
			tc.buildStubs(service)

			router := setupRouter(t, service)

			req := httptest.NewRequest(http.MethodGet, tc.url, nil)

			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, req)

			if recorder.Code != tc.wantStatusCode {
				t.Errorf("status code=%d, want %d, body=%s", recorder.Code, tc.wantStatusCode, recorder.Body)
			}
		})
	}
}

func TestList(t *testing.T) {
	coffees := []domain.Coffee{test.RandomCoffee(), test.RandomCoffee()}

	testCases := []struct {
		name           string
		url            string
		buildStubs     func(service *MockService)
		wantStatusCode int
	}{
		{
			name: "OK",
			url:  "/coffee/",
			buildStubs: func(service *MockService) {
				service.EXPECT().
					List(gomock.Any()).
					Times(1).
					Return(coffees, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "ByName",
			url:  "/coffee/?name=" + coffees[0].Name,
			buildStubs: func(service *MockService) {
				service.EXPECT().
					GetByName(gomock.Any(), gomock.Eq(coffees[0].Name)).
					Times(1).
					Return(coffees[0], nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "ByNameNotFound",
			url:  "/coffee/?name=unknown",
			buildStubs: func(service *MockService) {
				service.EXPECT().
					GetByName(gomock.Any(), gomock.Eq("unknown")).
					Times(1).
					Return(domain.Coffee{}, domain.ErrCoffeeNotFound)
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name: "InternalError",
			url:  "/coffee/",
			buildStubs: func(service *MockService) {
				service.EXPECT().
					List(gomock.Any()).
					Times(1).
					Return(nil, errorspkg.ErrInternal)
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := NewMockService(ctrl)
			tc.buildStubs(service)

			router := setupRouter(t, service)

			req := httptest.NewRequest(http.MethodGet, tc.url, nil)

			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, req)

			if recorder.Code != tc.wantStatusCode {
				t.Errorf("status code=%d, want %d, body=%s", recorder.Code, tc.wantStatusCode, recorder.Body)
			}
		})
	}
}
