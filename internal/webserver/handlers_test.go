package webserver_test

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Robo-91/grocery-inventory/config"
	"github.com/Robo-91/grocery-inventory/internal/catalog"
	"github.com/Robo-91/grocery-inventory/internal/catalog/catalogtest"
	"github.com/Robo-91/grocery-inventory/internal/webserver"
)

// minimal 1x1 PNG, enough to satisfy content sniffing
var pngBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

func newTestServer(t *testing.T) (*webserver.WebServer, *catalogtest.MemStore) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.System.Workdir = t.TempDir()
	cfg.Logger.FileEnable = false

	st := catalogtest.NewMemStore()
	ws, err := webserver.NewWebServer(cfg, st)
	require.NoError(t, err)
	return ws, st
}

// multipartBody builds a multipart form with the given text fields and,
// unless file is nil, an image upload in field "img".
func multipartBody(t *testing.T, fields map[string]string, file []byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if file != nil {
		part, err := w.CreateFormFile("img", "upload.png")
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func doMultipart(t *testing.T, ws *webserver.WebServer, path string, fields map[string]string, file []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, ctype := multipartBody(t, fields, file)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set(echoContentType, ctype)
	rec := httptest.NewRecorder()
	ws.Handler().ServeHTTP(rec, req)
	return rec
}

func doGet(ws *webserver.WebServer, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	ws.Handler().ServeHTTP(rec, req)
	return rec
}

const echoContentType = "Content-Type"

func TestCreateThenDetailRoundtrip(t *testing.T) {
	cases := []struct {
		schema catalog.Schema
		fields map[string]string
		expect []string
	}{
		{
			schema: catalog.Dairy,
			fields: map[string]string{"brandname": "Cheep Brand", "product": "Milk", "price": "2.89"},
			expect: []string{"Cheep Brand", "Milk", "$2.89"},
		},
		{
			schema: catalog.Grocery,
			fields: map[string]string{"brandname": "Cheep Brand", "product": "Bread", "price": "3.99", "quantity": "10"},
			expect: []string{"Cheep Brand", "Bread", "$3.99"},
		},
		{
			schema: catalog.Market,
			fields: map[string]string{"name": "Ribeye Steak", "price": "8.99", "usda": "Prime", "quantity": "7"},
			expect: []string{"Ribeye Steak", "Prime", "$8.99 / lb"},
		},
		{
			schema: catalog.Produce,
			fields: map[string]string{"name": "Bananas", "price": "1.99", "type": "Fruit"},
			expect: []string{"Bananas", "Fruit", "$1.99 / lb"},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.schema.Code, func(t *testing.T) {
			ws, st := newTestServer(t)

			rec := doMultipart(t, ws, "/inventory/"+tc.schema.Code+"/create", tc.fields, pngBytes)
			require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
			loc := rec.Header().Get("Location")
			require.True(t, strings.HasPrefix(loc, "/inventory/"+tc.schema.Code+"/"), loc)
			assert.Equal(t, 1, st.Count(tc.schema))

			detail := doGet(ws, loc)
			require.Equal(t, http.StatusOK, detail.Code)
			for _, want := range tc.expect {
				assert.Contains(t, detail.Body.String(), want)
			}
		})
	}
}

func TestCreateValidationFailure(t *testing.T) {
	t.Run("short identifying field creates nothing", func(t *testing.T) {
		ws, st := newTestServer(t)
		rec := doMultipart(t, ws, "/inventory/dairy/create",
			map[string]string{"brandname": "C", "product": "Milk"}, pngBytes)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Brandname Required!")
		assert.Equal(t, 0, st.Count(catalog.Dairy))
	})

	t.Run("submitted values survive the re-render", func(t *testing.T) {
		ws, _ := newTestServer(t)
		rec := doMultipart(t, ws, "/inventory/grocery/create",
			map[string]string{"brandname": "Cheep Brand", "product": "Bread"}, pngBytes)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Cheep Brand")
		assert.Contains(t, rec.Body.String(), "Bread")
	})

	t.Run("missing image is a field error", func(t *testing.T) {
		ws, st := newTestServer(t)
		rec := doMultipart(t, ws, "/inventory/produce/create",
			map[string]string{"name": "Bananas", "price": "1.99", "type": "Fruit"}, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "An image file is required!")
		assert.Equal(t, 0, st.Count(catalog.Produce))
	})

	t.Run("non-image upload rejected", func(t *testing.T) {
		ws, st := newTestServer(t)
		rec := doMultipart(t, ws, "/inventory/produce/create",
			map[string]string{"name": "Bananas", "price": "1.99", "type": "Fruit"},
			[]byte("plain text pretending to be a picture"))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "must be an image")
		assert.Equal(t, 0, st.Count(catalog.Produce))
	})
}

func TestEnumRejection(t *testing.T) {
	t.Run("market grade outside set", func(t *testing.T) {
		ws, st := newTestServer(t)
		rec := doMultipart(t, ws, "/inventory/market/create",
			map[string]string{"name": "Bacon", "price": "3.99", "usda": "Choice"}, pngBytes)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Choices are either Prime, Select, or None.")
		assert.Equal(t, 0, st.Count(catalog.Market))
	})

	t.Run("produce type outside set", func(t *testing.T) {
		ws, st := newTestServer(t)
		rec := doMultipart(t, ws, "/inventory/produce/create",
			map[string]string{"name": "Bananas", "price": "1.99", "type": "Legume"}, pngBytes)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Type must be either Fruit or Vegetable!")
		assert.Equal(t, 0, st.Count(catalog.Produce))
	})
}

func TestDuplicateCreateRedirectsToExisting(t *testing.T) {
	ws, st := newTestServer(t)
	fields := map[string]string{"brandname": "Cheep Brand", "product": "Milk", "price": "2.89"}

	first := doMultipart(t, ws, "/inventory/dairy/create", fields, pngBytes)
	require.Equal(t, http.StatusSeeOther, first.Code)
	firstURL := first.Header().Get("Location")

	second := doMultipart(t, ws, "/inventory/dairy/create",
		map[string]string{"brandname": "Other Brand", "product": "Milk", "price": "3.49"}, pngBytes)
	require.Equal(t, http.StatusSeeOther, second.Code)
	assert.Equal(t, firstURL, second.Header().Get("Location"))
	assert.Equal(t, 1, st.Count(catalog.Dairy))
}

func TestUpdateReplacesFieldsPreservingID(t *testing.T) {
	ws, st := newTestServer(t)

	rec := doMultipart(t, ws, "/inventory/market/create",
		map[string]string{"name": "Bacon", "price": "3.99", "usda": "None", "quantity": "1"}, pngBytes)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	itemURL := rec.Header().Get("Location")
	id := itemURL[strings.LastIndex(itemURL, "/")+1:]

	upd := doMultipart(t, ws, itemURL+"/update",
		map[string]string{"name": "Smoked Bacon", "price": "4.99", "usda": "Select", "quantity": "3"}, pngBytes)
	require.Equal(t, http.StatusSeeOther, upd.Code, upd.Body.String())
	assert.Equal(t, itemURL, upd.Header().Get("Location"))

	oid, err := primitive.ObjectIDFromHex(id)
	require.NoError(t, err)
	it, err := st.Get(context.Background(), catalog.Market, oid)
	require.NoError(t, err)
	assert.Equal(t, "Smoked Bacon", it.Text("name"))
	assert.Equal(t, "Select", it.Text("usda"))

	detail := doGet(ws, itemURL)
	require.Equal(t, http.StatusOK, detail.Code)
	assert.Contains(t, detail.Body.String(), "Smoked Bacon")
	assert.NotContains(t, detail.Body.String(), "$3.99")
	assert.Equal(t, 1, st.Count(catalog.Market))
}

func TestUpdateRenameToExistingName(t *testing.T) {
	ws, st := newTestServer(t)

	bacon := doMultipart(t, ws, "/inventory/market/create",
		map[string]string{"name": "Bacon", "price": "3.99", "usda": "None", "quantity": "1"}, pngBytes)
	require.Equal(t, http.StatusSeeOther, bacon.Code)

	chicken := doMultipart(t, ws, "/inventory/market/create",
		map[string]string{"name": "Chicken", "price": "7.99", "usda": "None", "quantity": "15"}, pngBytes)
	require.Equal(t, http.StatusSeeOther, chicken.Code)
	chickenURL := chicken.Header().Get("Location")
	chickenID := chickenURL[strings.LastIndex(chickenURL, "/")+1:]

	// renaming Chicken to Bacon collides with the unique identifying field
	upd := doMultipart(t, ws, chickenURL+"/update",
		map[string]string{"name": "Bacon", "price": "7.99", "usda": "None", "quantity": "15"}, pngBytes)
	require.Equal(t, http.StatusOK, upd.Code)
	assert.Contains(t, upd.Body.String(), "Another item already uses this name!")
	assert.Equal(t, 2, st.Count(catalog.Market))

	oid, err := primitive.ObjectIDFromHex(chickenID)
	require.NoError(t, err)
	it, err := st.Get(context.Background(), catalog.Market, oid)
	require.NoError(t, err)
	assert.Equal(t, "Chicken", it.Text("name"))
}

func TestUpdateRequiresFreshImage(t *testing.T) {
	ws, _ := newTestServer(t)
	rec := doMultipart(t, ws, "/inventory/dairy/create",
		map[string]string{"brandname": "Cheep Brand", "product": "Milk"}, pngBytes)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	itemURL := rec.Header().Get("Location")

	upd := doMultipart(t, ws, itemURL+"/update",
		map[string]string{"brandname": "Cheep Brand", "product": "Milk"}, nil)
	require.Equal(t, http.StatusOK, upd.Code)
	assert.Contains(t, upd.Body.String(), "An image file is required!")
}

func TestDeleteFlow(t *testing.T) {
	ws, st := newTestServer(t)
	rec := doMultipart(t, ws, "/inventory/produce/create",
		map[string]string{"name": "Spinach", "price": "1.99", "type": "Vegetable"}, pngBytes)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	itemURL := rec.Header().Get("Location")
	id := itemURL[strings.LastIndex(itemURL, "/")+1:]

	confirm := doGet(ws, itemURL+"/delete")
	require.Equal(t, http.StatusOK, confirm.Code)
	assert.Contains(t, confirm.Body.String(), "Spinach")

	del := doMultipart(t, ws, itemURL+"/delete", map[string]string{"id": id}, nil)
	require.Equal(t, http.StatusSeeOther, del.Code)
	assert.Equal(t, "/inventory/produce", del.Header().Get("Location"))
	assert.Equal(t, 0, st.Count(catalog.Produce))

	gone := doGet(ws, itemURL)
	assert.Equal(t, http.StatusNotFound, gone.Code)
}

func TestNotFoundPolicy(t *testing.T) {
	ws, _ := newTestServer(t)
	ghost := primitive.NewObjectID().Hex()

	for _, s := range catalog.Categories {
		t.Run(s.Code, func(t *testing.T) {
			assert.Equal(t, http.StatusNotFound, doGet(ws, "/inventory/"+s.Code+"/"+ghost).Code)
			assert.Equal(t, http.StatusNotFound, doGet(ws, "/inventory/"+s.Code+"/"+ghost+"/update").Code)
			// delete confirm follows the same policy as detail and update
			assert.Equal(t, http.StatusNotFound, doGet(ws, "/inventory/"+s.Code+"/"+ghost+"/delete").Code)
		})
	}
}

func TestMalformedID(t *testing.T) {
	ws, _ := newTestServer(t)
	assert.Equal(t, http.StatusBadRequest, doGet(ws, "/inventory/dairy/not-an-id").Code)
}

func TestListAndHome(t *testing.T) {
	ws, _ := newTestServer(t)

	home := doGet(ws, "/inventory/")
	require.Equal(t, http.StatusOK, home.Code)
	assert.Contains(t, home.Body.String(), "Grocery Inventory Home Page")

	doMultipart(t, ws, "/inventory/grocery/create",
		map[string]string{"brandname": "Cheep Brand", "product": "Flour", "price": "6.79", "quantity": "18"}, pngBytes)

	list := doGet(ws, "/inventory/grocery")
	require.Equal(t, http.StatusOK, list.Code)
	assert.Contains(t, list.Body.String(), "Flour")
}
