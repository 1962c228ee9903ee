package api

import (
	"errors"
	"net/http"

	"github.com/akshayWork-19/RightTutor-Backend/models"
	"github.com/akshayWork-19/RightTutor-Backend/utils"
	"github.com/gin-gonic/gin"
)

// Sheet module names the push path resolves mirrors by. These match the
// repository categories operators configure.
const (
	moduleInquiries = "Inquiries"
	moduleBookings  = "Bookings"
	moduleMatches   = "Matches"
)

type contactInput struct {
	Name       string `json:"name" binding:"omitempty,min=2"`
	ParentName string `json:"parentName"`
	Email      string `json:"email" binding:"omitempty,email"`
	Phone      string `json:"phone"`
	Message    string `json:"message"`
	Subject    string `json:"subject"`
	Status     string `json:"status"`
	Date       string `json:"date"`
}

func (in *contactInput) fields() (map[string]any, error) {
	if in.Name == "" && in.ParentName == "" && in.Email == "" {
		return nil, errors.New("identification (name or email) is required")
	}
	return compact(map[string]any{
		"name":       in.Name,
		"parentName": in.ParentName,
		"email":      in.Email,
		"phone":      utils.NormalizePhone(in.Phone),
		"message":    in.Message,
		"subject":    in.Subject,
		"status":     in.Status,
		"date":       in.Date,
	}), nil
}

type consultationInput struct {
	Name        string `json:"name" binding:"required,min=2"`
	Email       string `json:"email" binding:"omitempty,email"`
	Phone       string `json:"phone"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Message     string `json:"message"`
	StudentName string `json:"studentName"`
	Subject     string `json:"subject"`
	Type        string `json:"type"`
}

func (in *consultationInput) fields() (map[string]any, error) {
	return compact(map[string]any{
		"name":        in.Name,
		"parentName":  in.Name,
		"email":       in.Email,
		"phone":       utils.NormalizePhone(in.Phone),
		"date":        in.Date,
		"time":        in.Time,
		"message":     in.Message,
		"studentName": in.StudentName,
		"childName":   in.StudentName,
		"subject":     in.Subject,
		"type":        in.Type,
	}), nil
}

type manualMatchInput struct {
	ParentName  string `json:"parentName"`
	PhoneNumber string `json:"phoneNumber"`
	Phone       string `json:"phone"`
	Subject     string `json:"subject"`
	GradeLevel  string `json:"gradeLevel"`
	Status      string `json:"status"`
	DateAdded   string `json:"dateAdded"`
	Notes       string `json:"notes"`
}

func (in *manualMatchInput) fields() (map[string]any, error) {
	phone := in.PhoneNumber
	if phone == "" {
		phone = in.Phone
	}
	return compact(map[string]any{
		"parentName":  in.ParentName,
		"phoneNumber": utils.NormalizePhone(phone),
		"subject":     in.Subject,
		"gradeLevel":  in.GradeLevel,
		"status":      in.Status,
		"dateAdded":   in.DateAdded,
		"notes":       in.Notes,
	}), nil
}

// resource binds one store collection to its sheet module and input shape.
type resource struct {
	collection string
	module     string
	noun       string
	route      string
	parse      func(c *gin.Context) (map[string]any, error)
}

func contactResource() resource {
	return resource{
		collection: models.CollectionContacts,
		module:     moduleInquiries,
		noun:       "Contact",
		route:      "contact",
		parse: func(c *gin.Context) (map[string]any, error) {
			var in contactInput
			if err := c.ShouldBindJSON(&in); err != nil {
				return nil, err
			}
			return in.fields()
		},
	}
}

func consultationResource() resource {
	return resource{
		collection: models.CollectionBookings,
		module:     moduleBookings,
		noun:       "Booking",
		route:      "consultation",
		parse: func(c *gin.Context) (map[string]any, error) {
			var in consultationInput
			if err := c.ShouldBindJSON(&in); err != nil {
				return nil, err
			}
			return in.fields()
		},
	}
}

func manualMatchResource() resource {
	return resource{
		collection: models.CollectionManualMatches,
		module:     moduleMatches,
		noun:       "Match",
		route:      "manual-match",
		parse: func(c *gin.Context) (map[string]any, error) {
			var in manualMatchInput
			if err := c.ShouldBindJSON(&in); err != nil {
				return nil, err
			}
			return in.fields()
		},
	}
}

func (s *Server) submitRecord(res resource) gin.HandlerFunc {
	return func(c *gin.Context) {
		fields, err := res.parse(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
		if _, ok := fields["status"]; !ok {
			fields["status"] = "Pending"
		}

		doc, err := s.Records.Create(c.Request.Context(), res.collection, fields)
		if err != nil {
			s.Logger.WithError(err).WithField("collection", res.collection).Error("create failed")
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to save " + res.noun})
			return
		}

		data := doc.Map()
		s.pushToSheet(res.module, data, "add")
		s.Notifier.Publish(res.collection, "add", doc.ID, data)

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": res.noun + " submitted successfully",
			"data":    data,
		})
	}
}

func (s *Server) listRecords(res resource) gin.HandlerFunc {
	return func(c *gin.Context) {
		docs, err := s.Records.List(c.Request.Context(), res.collection)
		if err != nil {
			s.Logger.WithError(err).WithField("collection", res.collection).Error("list failed")
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to fetch records"})
			return
		}
		out := make([]map[string]any, 0, len(docs))
		for i := range docs {
			out = append(out, docs[i].Map())
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": res.noun + "s fetched successfully",
			"data":    out,
		})
	}
}

func (s *Server) updateRecord(res resource) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		fields, err := res.parse(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}

		doc, err := s.Records.Update(c.Request.Context(), res.collection, id, fields)
		if err != nil {
			if errors.Is(err, utils.ErrorRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": res.noun + " not found"})
				return
			}
			s.Logger.WithError(err).WithField("collection", res.collection).Error("update failed")
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to update " + res.noun})
			return
		}

		data := doc.Map()
		s.pushToSheet(res.module, data, "update")
		s.Notifier.Publish(res.collection, "update", doc.ID, data)

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": res.noun + " updated successfully",
			"data":    data,
		})
	}
}

func (s *Server) deleteRecord(res resource) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		if err := s.Records.Delete(c.Request.Context(), res.collection, id); err != nil {
			if errors.Is(err, utils.ErrorRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": res.noun + " not found"})
				return
			}
			s.Logger.WithError(err).WithField("collection", res.collection).Error("delete failed")
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to delete " + res.noun})
			return
		}

		s.pushToSheet(res.module, map[string]any{"id": id}, "delete")
		s.Notifier.Publish(res.collection, "delete", id, nil)

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": res.noun + " deleted successfully",
		})
	}
}

// compact drops empty values so updates only touch the fields the client
// actually sent.
func compact(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		out[k] = v
	}
	return out
}
