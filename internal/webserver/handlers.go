package webserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/Robo-91/grocery-inventory/internal/catalog"
)

// itemView pairs an item with its derived display values for the
// templates.
type itemView struct {
	Item  *catalog.Item
	URL   string
	Price string
}

// fieldView is one form input: its label, the value to prefill, and the
// validation message when the field was rejected.
type fieldView struct {
	Name    string
	Label   string
	Value   string
	Error   string
	IsEnum  bool
	Options []string
}

func newItemView(s catalog.Schema, it *catalog.Item) itemView {
	return itemView{
		Item:  it,
		URL:   catalog.ItemURL(s, it),
		Price: catalog.PriceLabel(s, it),
	}
}

func (ws *WebServer) home(c echo.Context) error {
	return c.Render(http.StatusOK, "index.html", echo.Map{
		"Title":      "Grocery Inventory Home Page",
		"Categories": catalog.Categories,
	})
}

func (ws *WebServer) list(s catalog.Schema) echo.HandlerFunc {
	return func(c echo.Context) error {
		items, err := ws.store.List(c.Request().Context(), s)
		if err != nil {
			return err
		}
		views := make([]itemView, 0, len(items))
		for _, it := range items {
			views = append(views, newItemView(s, it))
		}
		return c.Render(http.StatusOK, "list.html", echo.Map{
			"Title":  s.Title + " Items",
			"Schema": s,
			"Items":  views,
		})
	}
}

func (ws *WebServer) detail(s catalog.Schema) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		it, err := ws.store.Get(c.Request().Context(), s, id)
		if err != nil {
			return err
		}
		return c.Render(http.StatusOK, "detail.html", echo.Map{
			"Title":  s.Title + " Item Details",
			"Schema": s,
			"View":   newItemView(s, it),
		})
	}
}

func (ws *WebServer) createForm(s catalog.Schema) echo.HandlerFunc {
	return func(c echo.Context) error {
		return ws.renderForm(c, s, "Create "+s.Title+" Product", nil, nil, "")
	}
}

func (ws *WebServer) createItem(s catalog.Schema) echo.HandlerFunc {
	return func(c echo.Context) error {
		values := formValues(c, s)
		attrs, fieldErrs := catalog.ParseValues(s, values)

		img, err := ws.uploads.Read(c, "img")
		if err != nil {
			if !IsUploadReject(err) {
				return err
			}
			fieldErrs = append(fieldErrs, catalog.FieldError{Field: "img", Message: err.Error()})
		}
		if len(fieldErrs) > 0 {
			return ws.renderForm(c, s, "Create "+s.Title+" Product", values, fieldErrs, "")
		}
		if err := ws.uploads.Commit(&img, "img"); err != nil {
			return err
		}

		it := catalog.NewItem(attrs, img)
		existing, created, err := catalog.FindOrCreate(c.Request().Context(), ws.store, s, it)
		if err != nil {
			return err
		}
		if created {
			zap.L().Info("item created",
				zap.String("category", s.Code),
				zap.String("id", existing.ID.Hex()),
				zap.String(s.IdentField, existing.Ident(s)),
			)
		}
		return c.Redirect(http.StatusSeeOther, catalog.ItemURL(s, existing))
	}
}

func (ws *WebServer) updateForm(s catalog.Schema) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		it, err := ws.store.Get(c.Request().Context(), s, id)
		if err != nil {
			return err
		}
		return ws.renderForm(c, s, "Update "+s.Title+" Product", attrValues(s, it), nil, id.Hex())
	}
}

func (ws *WebServer) updateItem(s catalog.Schema) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		values := formValues(c, s)
		attrs, fieldErrs := catalog.ParseValues(s, values)

		// every update submission re-attaches a fresh image
		img, err := ws.uploads.Read(c, "img")
		if err != nil {
			if !IsUploadReject(err) {
				return err
			}
			fieldErrs = append(fieldErrs, catalog.FieldError{Field: "img", Message: err.Error()})
		}
		if len(fieldErrs) > 0 {
			return ws.renderForm(c, s, "Update "+s.Title+" Product", values, fieldErrs, id.Hex())
		}
		if err := ws.uploads.Commit(&img, "img"); err != nil {
			return err
		}

		it := catalog.NewItem(attrs, img)
		if err := ws.store.Replace(c.Request().Context(), s, id, it); err != nil {
			var dup *catalog.DuplicateError
			if errors.As(err, &dup) {
				fieldErrs = append(fieldErrs, catalog.FieldError{
					Field:   s.IdentField,
					Message: duplicateMessage(s),
				})
				return ws.renderForm(c, s, "Update "+s.Title+" Product", values, fieldErrs, id.Hex())
			}
			return err
		}
		zap.L().Info("item updated",
			zap.String("category", s.Code),
			zap.String("id", id.Hex()),
		)
		return c.Redirect(http.StatusSeeOther, catalog.ItemURL(s, it))
	}
}

func (ws *WebServer) deleteForm(s catalog.Schema) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		it, err := ws.store.Get(c.Request().Context(), s, id)
		if err != nil {
			return err
		}
		return c.Render(http.StatusOK, "delete.html", echo.Map{
			"Title":  "Delete " + s.Title + " Product",
			"Schema": s,
			"View":   newItemView(s, it),
		})
	}
}

func (ws *WebServer) deleteItem(s catalog.Schema) echo.HandlerFunc {
	return func(c echo.Context) error {
		// the confirm form posts the id as a field; fall back to the path
		hex := c.FormValue("id")
		if hex == "" {
			hex = c.Param("id")
		}
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid item id")
		}
		if err := ws.store.Delete(c.Request().Context(), s, id); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/inventory/"+s.Code)
	}
}

func (ws *WebServer) renderForm(c echo.Context, s catalog.Schema, title string, values map[string]string, fieldErrs []catalog.FieldError, idHex string) error {
	byField := make(map[string]string, len(fieldErrs))
	var messages []string
	for _, fe := range fieldErrs {
		byField[fe.Field] = fe.Message
		messages = append(messages, fe.Message)
	}
	fields := make([]fieldView, 0, len(s.Fields))
	for _, f := range s.Fields {
		fields = append(fields, fieldView{
			Name:    f.Name,
			Label:   f.Label,
			Value:   values[f.Name],
			Error:   byField[f.Name],
			IsEnum:  f.Kind == catalog.FieldEnum,
			Options: f.Enum,
		})
	}
	return c.Render(http.StatusOK, "form.html", echo.Map{
		"Title":    title,
		"Schema":   s,
		"Fields":   fields,
		"ImgError": byField["img"],
		"Errors":   messages,
		"ID":       idHex,
	})
}

// formValues collects the schema's form fields from the request.
func formValues(c echo.Context, s catalog.Schema) map[string]string {
	values := make(map[string]string, len(s.Fields))
	for _, f := range s.Fields {
		values[f.Name] = c.FormValue(f.Name)
	}
	return values
}

// attrValues renders stored attributes back into form values for the
// update form.
func attrValues(s catalog.Schema, it *catalog.Item) map[string]string {
	values := make(map[string]string, len(s.Fields))
	for _, f := range s.Fields {
		switch f.Kind {
		case catalog.FieldNumber:
			if n, ok := it.Number(f.Name); ok {
				values[f.Name] = strconv.FormatFloat(n, 'f', -1, 64)
			}
		default:
			values[f.Name] = it.Text(f.Name)
		}
	}
	return values
}

// duplicateMessage is the field error shown when a submission collides
// with another item's identifying value.
func duplicateMessage(s catalog.Schema) string {
	label := s.IdentField
	if f := s.Field(s.IdentField); f != nil {
		label = strings.ToLower(f.Label)
	}
	return "Another item already uses this " + label + "!"
}

func parseID(c echo.Context) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return primitive.NilObjectID, echo.NewHTTPError(http.StatusBadRequest, "Invalid item id")
	}
	return id, nil
}
