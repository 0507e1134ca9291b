package helper

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func TestGetStudentIDFromToken(t *testing.T) {
	sid := uuid.New()

	cases := []struct {
		name   string
		local  any
		status int
	}{
		{"uuid string", sid.String(), fiber.StatusOK},
		{"uuid value", sid, fiber.StatusOK},
		{"missing", nil, fiber.StatusForbidden},
		{"garbage", "bukan-uuid", fiber.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				if tc.local != nil {
					c.Locals(LocStudentID, tc.local)
				}
				id, err := GetStudentIDFromToken(c)
				if err != nil {
					return err
				}
				if id != sid {
					t.Errorf("id = %s, want %s", id, sid)
				}
				return c.SendStatus(fiber.StatusOK)
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			if resp.StatusCode != tc.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tc.status)
			}
		})
	}
}

func TestHasAnyRole(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		c.Locals(LocRolesGlobal, []any{"Teacher", " user "})
		if !HasAnyRole(c, "teacher") {
			t.Error("teacher harus terdeteksi")
		}
		if HasAnyRole(c, "admin") {
			t.Error("admin tidak boleh terdeteksi")
		}
		c.Locals(LocIsOwner, true)
		if !HasAnyRole(c, "owner") {
			t.Error("is_owner harus menjadi role owner")
		}
		return nil
	})
	if _, err := app.Test(httptest.NewRequest("GET", "/", nil)); err != nil {
		t.Fatal(err)
	}
}
