package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authHTTP "github.com/allisson/tokenbox/internal/auth/http"
	containerDomain "github.com/allisson/tokenbox/internal/container/domain"
	containerUseCase "github.com/allisson/tokenbox/internal/container/usecase"
	"github.com/allisson/tokenbox/internal/httputil"
	identityDomain "github.com/allisson/tokenbox/internal/identity/domain"
	policyDomain "github.com/allisson/tokenbox/internal/policy/domain"
)

type mockContainerUseCase struct {
	mock.Mock
}

func (m *mockContainerUseCase) Create(ctx context.Context, actor policyDomain.Actor, input containerUseCase.CreateInput) (*containerDomain.Container, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*containerDomain.Container), args.Error(1)
}

func (m *mockContainerUseCase) Delete(ctx context.Context, actor policyDomain.Actor, serial string) error {
	return m.Called(ctx, actor, serial).Error(0)
}

func (m *mockContainerUseCase) SetDescription(ctx context.Context, actor policyDomain.Actor, serial, description string) error {
	return m.Called(ctx, actor, serial, description).Error(0)
}

func (m *mockContainerUseCase) SetStates(ctx context.Context, actor policyDomain.Actor, serial string, states []string) (map[string]bool, error) {
	args := m.Called(ctx, actor, serial, states)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]bool), args.Error(1)
}

func (m *mockContainerUseCase) SetInfo(ctx context.Context, actor policyDomain.Actor, serial, key, value string) error {
	return m.Called(ctx, actor, serial, key, value).Error(0)
}

func (m *mockContainerUseCase) UpdateLastSeen(ctx context.Context, serial string) error {
	return m.Called(ctx, serial).Error(0)
}

func (m *mockContainerUseCase) Get(ctx context.Context, actor policyDomain.Actor, serial string) (*containerDomain.Container, error) {
	args := m.Called(ctx, actor, serial)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*containerDomain.Container), args.Error(1)
}

func (m *mockContainerUseCase) List(ctx context.Context, actor policyDomain.Actor, input containerUseCase.ListInput) (*containerUseCase.ListResult, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*containerUseCase.ListResult), args.Error(1)
}

func (m *mockContainerUseCase) StateTypes(ctx context.Context) map[string][]string {
	return m.Called(ctx).Get(0).(map[string][]string)
}

func (m *mockContainerUseCase) Types(ctx context.Context) map[containerDomain.Type]containerUseCase.TypeInfo {
	return m.Called(ctx).Get(0).(map[containerDomain.Type]containerUseCase.TypeInfo)
}

func (m *mockContainerUseCase) AssignUser(ctx context.Context, actor policyDomain.Actor, serial, login, realm string) (bool, error) {
	args := m.Called(ctx, actor, serial, login, realm)
	return args.Bool(0), args.Error(1)
}

func (m *mockContainerUseCase) UnassignUser(ctx context.Context, actor policyDomain.Actor, serial, login, realm string) (bool, error) {
	args := m.Called(ctx, actor, serial, login, realm)
	return args.Bool(0), args.Error(1)
}

func (m *mockContainerUseCase) AddTokens(ctx context.Context, actor policyDomain.Actor, serial, tokenSerials string) (map[string]bool, error) {
	args := m.Called(ctx, actor, serial, tokenSerials)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]bool), args.Error(1)
}

func (m *mockContainerUseCase) RemoveTokens(ctx context.Context, actor policyDomain.Actor, serial, tokenSerials string) (map[string]bool, error) {
	args := m.Called(ctx, actor, serial, tokenSerials)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]bool), args.Error(1)
}

func (m *mockContainerUseCase) SetRealms(ctx context.Context, actor policyDomain.Actor, serial, realmNames string) (*containerUseCase.SetRealmsResult, error) {
	args := m.Called(ctx, actor, serial, realmNames)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*containerUseCase.SetRealmsResult), args.Error(1)
}

func (m *mockContainerUseCase) CreateTemplate(ctx context.Context, actor policyDomain.Actor, typeName, name, options string) (*containerDomain.Template, error) {
	args := m.Called(ctx, actor, typeName, name, options)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*containerDomain.Template), args.Error(1)
}

func (m *mockContainerUseCase) TemplateOptions(ctx context.Context, typeName string) (map[string]any, error) {
	args := m.Called(ctx, typeName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

var adminActor = policyDomain.Actor{Scope: policyDomain.ScopeAdmin}

// setupTestHandler creates a test handler with a mocked use case.
func setupTestHandler(t *testing.T) (*ContainerHandler, *mockContainerUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mockUseCase := &mockContainerUseCase{}
	t.Cleanup(func() { mockUseCase.AssertExpectations(t) })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewContainerHandler(mockUseCase, logger), mockUseCase
}

// createTestContext builds a gin test context carrying an authenticated actor
// and an optional JSON body.
func createTestContext(t *testing.T, actor *policyDomain.Actor, method, target string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader io.Reader = http.NoBody
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if actor != nil {
		req = req.WithContext(authHTTP.WithActor(req.Context(), *actor))
	}
	c.Request = req

	return c, w
}

func decodeResult(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var response map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	result, ok := response["result"].(map[string]any)
	require.True(t, ok)
	return result
}

func TestContainerHandler_Create(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		container := &containerDomain.Container{
			Serial: "SMPH00011B2C",
			Type:   containerDomain.TypeSmartphone,
		}

		mockUseCase.On("Create", mock.Anything, adminActor, containerUseCase.CreateInput{
			Type: "smartphone",
		}).Return(container, nil).Once()

		c, w := createTestContext(t, &adminActor, http.MethodPost, "/container/init",
			map[string]string{"type": "smartphone"})

		handler.Create(c)

		assert.Equal(t, http.StatusOK, w.Code)
		result := decodeResult(t, w)
		value := result["value"].(map[string]any)
		assert.Equal(t, "SMPH00011B2C", value["container_serial"])
	})

	t.Run("PolicyDenied", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("Create", mock.Anything, adminActor, mock.Anything).
			Return(nil, policyDomain.ErrPolicyDenied).Once()

		c, w := createTestContext(t, &adminActor, http.MethodPost, "/container/init",
			map[string]string{"type": "generic"})

		handler.Create(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
		result := decodeResult(t, w)
		errorPayload := result["error"].(map[string]any)
		assert.Equal(t, float64(httputil.CodePolicyDenied), errorPayload["code"])
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		c, w := createTestContext(t, nil, http.MethodPost, "/container/init",
			map[string]string{"type": "generic"})

		handler.Create(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		c, w := createTestContext(t, &adminActor, http.MethodPost, "/container/init", nil)
		c.Request.Body = io.NopCloser(bytes.NewReader([]byte("not json")))

		handler.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestContainerHandler_Get(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		now := time.Now().UTC()
		owner := &identityDomain.User{Login: "hans", Realm: "realm1", Resolver: "resolver1"}
		container := &containerDomain.Container{
			Serial:      "CONT0001AAAA",
			Type:        containerDomain.TypeGeneric,
			Description: "test container",
			States:      []string{"active"},
			Owner:       owner,
			LastSeen:    now,
			LastUpdated: now,
		}

		mockUseCase.On("Get", mock.Anything, adminActor, "CONT0001AAAA").
			Return(container, nil).Once()

		c, w := createTestContext(t, &adminActor, http.MethodGet, "/container/CONT0001AAAA", nil)
		c.Params = gin.Params{{Key: "serial", Value: "CONT0001AAAA"}}

		handler.Get(c)

		assert.Equal(t, http.StatusOK, w.Code)
		result := decodeResult(t, w)
		value := result["value"].(map[string]any)
		assert.Equal(t, "CONT0001AAAA", value["serial"])
		users := value["users"].([]any)
		require.Len(t, users, 1)
		assert.Equal(t, "hans", users[0].(map[string]any)["user_name"])
		assert.Equal(t, []any{}, value["tokens"])
	})

	t.Run("NotFound", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("Get", mock.Anything, adminActor, "CONT00000000").
			Return(nil, containerDomain.ErrContainerNotFound).Once()

		c, w := createTestContext(t, &adminActor, http.MethodGet, "/container/CONT00000000", nil)
		c.Params = gin.Params{{Key: "serial", Value: "CONT00000000"}}

		handler.Get(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		result := decodeResult(t, w)
		errorPayload := result["error"].(map[string]any)
		assert.Equal(t, float64(httputil.CodeNotFound), errorPayload["code"])
	})
}

func TestContainerHandler_List(t *testing.T) {
	t.Run("PassesFiltersAndPagination", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		result := &containerUseCase.ListResult{
			Containers: []*containerDomain.Container{
				{Serial: "YUBI0001BBBB", Type: containerDomain.TypeYubikey},
			},
			Cursors: httputil.Cursors{Count: 1, Current: 2},
		}

		mockUseCase.On("List", mock.Anything, adminActor, containerUseCase.ListInput{
			Type:        "yubikey",
			TokenSerial: "OATH0001",
			Page:        httputil.Page{Number: 2, Size: 10},
		}).Return(result, nil).Once()

		c, w := createTestContext(t, &adminActor, http.MethodGet,
			"/container/?type=yubikey&token_serial=OATH0001&page=2&pagesize=10", nil)

		handler.List(c)

		assert.Equal(t, http.StatusOK, w.Code)
		value := decodeResult(t, w)["value"].(map[string]any)
		assert.Equal(t, float64(1), value["count"])
		assert.Equal(t, float64(2), value["current"])
	})

	t.Run("InvalidPage", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		c, w := createTestContext(t, &adminActor, http.MethodGet, "/container/?page=zero", nil)

		handler.List(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestContainerHandler_SetDescription(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("SetDescription", mock.Anything, adminActor, "CONT0001AAAA", "new text").
			Return(nil).Once()

		c, w := createTestContext(t, &adminActor, http.MethodPost,
			"/container/CONT0001AAAA/description", map[string]string{"description": "new text"})
		c.Params = gin.Params{{Key: "serial", Value: "CONT0001AAAA"}}

		handler.SetDescription(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("MissingField", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		c, w := createTestContext(t, &adminActor, http.MethodPost,
			"/container/CONT0001AAAA/description", map[string]string{})
		c.Params = gin.Params{{Key: "serial", Value: "CONT0001AAAA"}}

		handler.SetDescription(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		errorPayload := decodeResult(t, w)["error"].(map[string]any)
		assert.Equal(t, float64(httputil.CodeMissingParameter), errorPayload["code"])
	})

	t.Run("ExplicitEmptyStringClears", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("SetDescription", mock.Anything, adminActor, "CONT0001AAAA", "").
			Return(nil).Once()

		c, w := createTestContext(t, &adminActor, http.MethodPost,
			"/container/CONT0001AAAA/description", map[string]string{"description": ""})
		c.Params = gin.Params{{Key: "serial", Value: "CONT0001AAAA"}}

		handler.SetDescription(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestContainerHandler_SetStates(t *testing.T) {
	t.Run("SplitsCommaList", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("SetStates", mock.Anything, adminActor, "CONT0001AAAA",
			[]string{"active", "lost"}).
			Return(map[string]bool{"active": true, "lost": true}, nil).Once()

		c, w := createTestContext(t, &adminActor, http.MethodPost,
			"/container/CONT0001AAAA/states", map[string]string{"states": "active, lost"})
		c.Params = gin.Params{{Key: "serial", Value: "CONT0001AAAA"}}

		handler.SetStates(c)

		assert.Equal(t, http.StatusOK, w.Code)
		value := decodeResult(t, w)["value"].(map[string]any)
		assert.Equal(t, true, value["active"])
		assert.Equal(t, true, value["lost"])
	})

	t.Run("MissingStates", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		c, w := createTestContext(t, &adminActor, http.MethodPost,
			"/container/CONT0001AAAA/states", map[string]string{})
		c.Params = gin.Params{{Key: "serial", Value: "CONT0001AAAA"}}

		handler.SetStates(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestContainerHandler_SetInfo(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("SetInfo", mock.Anything, adminActor, "CONT0001AAAA", "model", "X200").
			Return(nil).Once()

		c, w := createTestContext(t, &adminActor, http.MethodPost,
			"/container/CONT0001AAAA/info/model", map[string]string{"value": "X200"})
		c.Params = gin.Params{
			{Key: "serial", Value: "CONT0001AAAA"},
			{Key: "key", Value: "model"},
		}

		handler.SetInfo(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("MissingValue", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		c, w := createTestContext(t, &adminActor, http.MethodPost,
			"/container/CONT0001AAAA/info/model", map[string]string{})
		c.Params = gin.Params{
			{Key: "serial", Value: "CONT0001AAAA"},
			{Key: "key", Value: "model"},
		}

		handler.SetInfo(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestContainerHandler_Membership(t *testing.T) {
	t.Run("AssignUser", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("AssignUser", mock.Anything, adminActor, "CONT0001AAAA", "hans", "realm1").
			Return(true, nil).Once()

		c, w := createTestContext(t, &adminActor, http.MethodPost,
			"/container/CONT0001AAAA/assign",
			map[string]string{"user": "hans", "realm": "realm1"})
		c.Params = gin.Params{{Key: "serial", Value: "CONT0001AAAA"}}

		handler.AssignUser(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, true, decodeResult(t, w)["value"])
	})

	t.Run("AssignUserConflict", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("AssignUser", mock.Anything, adminActor, "CONT0001AAAA", "hans", "realm1").
			Return(false, containerDomain.ErrAlreadyAssigned).Once()

		c, w := createTestContext(t, &adminActor, http.MethodPost,
			"/container/CONT0001AAAA/assign",
			map[string]string{"user": "hans", "realm": "realm1"})
		c.Params = gin.Params{{Key: "serial", Value: "CONT0001AAAA"}}

		handler.AssignUser(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		errorPayload := decodeResult(t, w)["error"].(map[string]any)
		assert.Equal(t, float64(httputil.CodeConflict), errorPayload["code"])
	})

	t.Run("UnassignUserNoOwner", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("UnassignUser", mock.Anything, adminActor, "CONT0001AAAA", "hans", "realm1").
			Return(false, nil).Once()

		c, w := createTestContext(t, &adminActor, http.MethodPost,
			"/container/CONT0001AAAA/unassign",
			map[string]string{"user": "hans", "realm": "realm1"})
		c.Params = gin.Params{{Key: "serial", Value: "CONT0001AAAA"}}

		handler.UnassignUser(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, false, decodeResult(t, w)["value"])
	})

	t.Run("AddTokensPerItemResults", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("AddTokens", mock.Anything, adminActor, "CONT0001AAAA", "TOTP0001,TOTP0002").
			Return(map[string]bool{"TOTP0001": true, "TOTP0002": false}, nil).Once()

		c, w := createTestContext(t, &adminActor, http.MethodPost,
			"/container/CONT0001AAAA/add",
			map[string]string{"serial": "TOTP0001,TOTP0002"})
		c.Params = gin.Params{{Key: "serial", Value: "CONT0001AAAA"}}

		handler.AddTokens(c)

		assert.Equal(t, http.StatusOK, w.Code)
		value := decodeResult(t, w)["value"].(map[string]any)
		assert.Equal(t, true, value["TOTP0001"])
		assert.Equal(t, false, value["TOTP0002"])
	})
}

func TestContainerHandler_SetRealms(t *testing.T) {
	t.Run("MergesDeletedFlag", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("SetRealms", mock.Anything, adminActor, "CONT0001AAAA", "realm1,realm2").
			Return(&containerUseCase.SetRealmsResult{
				Realms:  map[string]bool{"realm1": true, "realm2": false},
				Deleted: true,
			}, nil).Once()

		c, w := createTestContext(t, &adminActor, http.MethodPost,
			"/container/CONT0001AAAA/realms",
			map[string]string{"realms": "realm1,realm2"})
		c.Params = gin.Params{{Key: "serial", Value: "CONT0001AAAA"}}

		handler.SetRealms(c)

		assert.Equal(t, http.StatusOK, w.Code)
		value := decodeResult(t, w)["value"].(map[string]any)
		assert.Equal(t, true, value["realm1"])
		assert.Equal(t, false, value["realm2"])
		assert.Equal(t, true, value["deleted"])
	})

	t.Run("MissingRealmsField", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		c, w := createTestContext(t, &adminActor, http.MethodPost,
			"/container/CONT0001AAAA/realms", map[string]string{})
		c.Params = gin.Params{{Key: "serial", Value: "CONT0001AAAA"}}

		handler.SetRealms(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestContainerHandler_Catalog(t *testing.T) {
	t.Run("StateTypes", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("StateTypes", mock.Anything).
			Return(map[string][]string{"active": {"disabled"}, "lost": {}}).Once()

		c, w := createTestContext(t, &adminActor, http.MethodGet, "/container/statetypes", nil)

		handler.StateTypes(c)

		assert.Equal(t, http.StatusOK, w.Code)
		value := decodeResult(t, w)["value"].(map[string]any)
		assert.Contains(t, value, "active")
	})

	t.Run("Types", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("Types", mock.Anything).
			Return(map[containerDomain.Type]containerUseCase.TypeInfo{
				containerDomain.TypeYubikey: {
					Description: "Yubikey hardware device",
					TokenTypes:  []string{"hotp"},
				},
			}).Once()

		c, w := createTestContext(t, &adminActor, http.MethodGet, "/container/types", nil)

		handler.Types(c)

		assert.Equal(t, http.StatusOK, w.Code)
		value := decodeResult(t, w)["value"].(map[string]any)
		assert.Contains(t, value, "yubikey")
	})
}

func TestContainerHandler_Templates(t *testing.T) {
	t.Run("CreateTemplate", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		template := &containerDomain.Template{
			Name:    "default-phone",
			Type:    containerDomain.TypeSmartphone,
			Options: `{"token_types":["totp"]}`,
		}

		mockUseCase.On("CreateTemplate", mock.Anything, adminActor,
			"smartphone", "default-phone", `{"token_types":["totp"]}`).
			Return(template, nil).Once()

		c, w := createTestContext(t, &adminActor, http.MethodPost,
			"/container/smartphone/template/default-phone",
			map[string]string{"template_options": `{"token_types":["totp"]}`})
		c.Params = gin.Params{
			{Key: "serial", Value: "smartphone"},
			{Key: "name", Value: "default-phone"},
		}

		handler.CreateTemplate(c)

		assert.Equal(t, http.StatusOK, w.Code)
		value := decodeResult(t, w)["value"].(map[string]any)
		assert.Equal(t, "default-phone", value["name"])
		assert.Equal(t, "smartphone", value["container_type"])
	})

	t.Run("TemplateOptionsUnknownType", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("TemplateOptions", mock.Anything, "floppy").
			Return(nil, containerDomain.ErrUnsupportedType).Once()

		c, w := createTestContext(t, &adminActor, http.MethodGet,
			"/container/floppy/template/options", nil)
		c.Params = gin.Params{{Key: "serial", Value: "floppy"}}

		handler.TemplateOptions(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		errorPayload := decodeResult(t, w)["error"].(map[string]any)
		assert.Equal(t, float64(httputil.CodeUnsupportedType), errorPayload["code"])
	})
}
