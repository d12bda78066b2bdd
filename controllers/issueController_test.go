package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"aquawatch-be/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func jsonContext(t *testing.T, method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	data, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, bytes.NewReader(data))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("user_id", primitive.NewObjectID().Hex())
	return c, w
}

func TestCreateIssueEnumeratesFieldErrors(t *testing.T) {
	c, w := jsonContext(t, "POST", "/api/issues", map[string]interface{}{
		"title":       "Leak on Main St",
		"description": "Water pooling on the road",
		"type":        "flood",
		"priority":    "critical",
		"latitude":    10.0,
		"longitude":   10.0,
	})

	CreateIssue(c)

	assert.Equal(t, 400, w.Code)
	var response struct {
		Errors []string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response.Errors, 2, "every violated field is reported")
	assert.Contains(t, response.Errors, "Valid issue type is required")
	assert.Contains(t, response.Errors, "Valid priority is required")
}

func TestCreateIssueRequiresLocation(t *testing.T) {
	c, w := jsonContext(t, "POST", "/api/issues", map[string]interface{}{
		"title":       "Leak",
		"description": "desc",
		"type":        "leak",
	})

	CreateIssue(c)

	assert.Equal(t, 400, w.Code)
}

func multipartIssueRequest(t *testing.T, photoNames []string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	fields := map[string]string{
		"title":       "Leak on Main St",
		"description": "Water pooling on the road",
		"type":        "leak",
		"priority":    "high",
		"latitude":    "10.0",
		"longitude":   "10.0",
	}
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	for _, name := range photoNames {
		part, err := writer.CreateFormFile("photos", name)
		require.NoError(t, err)
		_, err = io.Copy(part, strings.NewReader("not really an image"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/api/issues", &buf)
	c.Request.Header.Set("Content-Type", writer.FormDataContentType())
	c.Set("user_id", primitive.NewObjectID().Hex())
	return c, w
}

func TestCreateIssueRejectsTooManyPhotos(t *testing.T) {
	var names []string
	for i := 0; i < 6; i++ {
		names = append(names, fmt.Sprintf("photo%d.png", i))
	}
	c, w := multipartIssueRequest(t, names)

	CreateIssue(c)

	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "Maximum 5 photos allowed")
}

func TestCreateIssueRejectsNonImagePhoto(t *testing.T) {
	c, w := multipartIssueRequest(t, []string{"document.pdf"})

	CreateIssue(c)

	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "must be a jpeg or png image")
}

func newIssueBody() map[string]interface{} {
	return map[string]interface{}{
		"title":       "Leak on Main St",
		"description": "Water pooling on the road",
		"type":        "leak",
		"latitude":    10.0,
		"longitude":   10.0,
	}
}

func TestCreateIssueAttachesNearbyService(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	mt.Run("service within radius", func(mt *mtest.T) {
		config.UseDatabase(mt.DB)
		serviceID := primitive.NewObjectID()
		mt.AddMockResponses(
			// geo lookup yields one service
			mtest.CreateCursorResponse(0, mt.DB.Name()+".waterservices", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: serviceID},
				{Key: "name", Value: "Central Treatment Plant"},
				{Key: "type", Value: "water_treatment"},
			}),
			// issue insert
			mtest.CreateSuccessResponse(),
			// back-reference push on the service
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
		)

		c, w := jsonContext(mt.T, "POST", "/api/issues", newIssueBody())

		CreateIssue(c)

		assert.Equal(mt, 201, w.Code)
		var created struct {
			WaterService string `json:"waterService"`
		}
		require.NoError(mt, json.Unmarshal(w.Body.Bytes(), &created))
		assert.Equal(mt, serviceID.Hex(), created.WaterService)
	})
}

func TestCreateIssueWithNoNearbyService(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	mt.Run("nothing within radius", func(mt *mtest.T) {
		config.UseDatabase(mt.DB)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, mt.DB.Name()+".waterservices", mtest.FirstBatch),
			mtest.CreateSuccessResponse(),
		)

		c, w := jsonContext(mt.T, "POST", "/api/issues", newIssueBody())

		CreateIssue(c)

		assert.Equal(mt, 201, w.Code, "an empty lookup is not an error")
		assert.NotContains(mt, w.Body.String(), "waterService")
	})
}

func TestUpdateIssueStatusRejectsUnknownStatus(t *testing.T) {
	c, w := jsonContext(t, "PATCH", "/api/issues/x/status", map[string]interface{}{
		"status": "done",
	})
	c.Params = gin.Params{{Key: "id", Value: primitive.NewObjectID().Hex()}}

	UpdateIssueStatus(c)

	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid status")
}

func TestAssignIssueRejectsMalformedUserID(t *testing.T) {
	c, w := jsonContext(t, "PATCH", "/api/issues/x/assign", map[string]interface{}{
		"assignedTo": "not-an-object-id",
	})
	c.Params = gin.Params{{Key: "id", Value: primitive.NewObjectID().Hex()}}

	AssignIssue(c)

	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid user ID")
}

func TestAddCommentRejectsEmptyText(t *testing.T) {
	c, w := jsonContext(t, "POST", "/api/issues/x/comments", map[string]interface{}{
		"text": "",
	})
	c.Params = gin.Params{{Key: "id", Value: primitive.NewObjectID().Hex()}}

	AddComment(c)

	assert.Equal(t, 400, w.Code)
}
