package search_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/gofiber/fiber/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"contactuse/internal/core/search"
)

var _ = Describe("Handler", func() {
	var (
		app   *fiber.App
		agent *fakeAgent
		svc   *search.Service
	)

	BeforeEach(func() {
		agent = &fakeAgent{runFn: func(string) (string, error) { return "jane@acme.com", nil }}
		svc = search.NewService(search.NewRegistry(), agent)
		app = fiber.New()
		search.NewHandler(svc).Register(app.Group("/api"))
	})

	do := func(method, path string, body []byte) (*http.Response, map[string]interface{}) {
		req := httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req, -1)
		Expect(err).NotTo(HaveOccurred())
		raw, err := io.ReadAll(resp.Body)
		Expect(err).NotTo(HaveOccurred())
		var out map[string]interface{}
		if len(raw) > 0 && raw[0] == '{' {
			Expect(json.Unmarshal(raw, &out)).To(Succeed())
		}
		return resp, out
	}

	Describe("POST /api/search", func() {
		It("returns the pending job", func() {
			agent.block = make(chan struct{})
			defer close(agent.block)

			body, _ := json.Marshal(map[string]interface{}{
				"keywords":       "Jane Doe",
				"organization":   "Acme",
				"fields_to_find": []string{"email"},
			})
			resp, out := do(http.MethodPost, "/api/search", body)

			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(out["status"]).To(Equal("pending"))
			Expect(out["id"]).NotTo(BeEmpty())
			Expect(out).To(HaveKeyWithValue("result", BeNil()))
			Expect(out).To(HaveKeyWithValue("error", BeNil()))
			Expect(out).To(HaveKeyWithValue("completed_at", BeNil()))
			Expect(out["created_at"]).NotTo(BeEmpty())
			Expect(out["request"]).To(HaveKeyWithValue("organization", "Acme"))
			Expect(out["request"]).To(HaveKeyWithValue("location", BeNil()))
		})

		It("defaults fields_to_find to an empty list", func() {
			agent.block = make(chan struct{})
			defer close(agent.block)

			resp, out := do(http.MethodPost, "/api/search", []byte(`{"keywords":"Jane Doe"}`))

			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(out["request"]).To(HaveKeyWithValue("fields_to_find", BeEmpty()))
			Expect(out["request"]).To(HaveKeyWithValue("fields_to_find", Not(BeNil())))
		})

		It("returns 422 when keywords are missing", func() {
			resp, out := do(http.MethodPost, "/api/search", []byte(`{"organization":"Acme"}`))

			Expect(resp.StatusCode).To(Equal(http.StatusUnprocessableEntity))
			Expect(out["detail"]).To(ContainSubstring("keywords"))
			Expect(svc.List()).To(BeEmpty())
		})

		It("returns 400 on a malformed body", func() {
			resp, _ := do(http.MethodPost, "/api/search", []byte(`{`))

			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("GET /api/queries", func() {
		It("returns an empty array when nothing was submitted", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/queries", nil)
			resp, err := app.Test(req, -1)
			Expect(err).NotTo(HaveOccurred())
			raw, _ := io.ReadAll(resp.Body)

			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(string(raw)).To(Equal("[]"))
		})

		It("lists submitted jobs", func() {
			_, first := do(http.MethodPost, "/api/search", []byte(`{"keywords":"Jane Doe"}`))
			_, second := do(http.MethodPost, "/api/search", []byte(`{"keywords":"John Roe"}`))

			req := httptest.NewRequest(http.MethodGet, "/api/queries", nil)
			resp, err := app.Test(req, -1)
			Expect(err).NotTo(HaveOccurred())
			var jobs []search.Job
			Expect(json.NewDecoder(resp.Body).Decode(&jobs)).To(Succeed())

			Expect(jobs).To(HaveLen(2))
			Expect(jobs[0].ID).To(Equal(first["id"]))
			Expect(jobs[1].ID).To(Equal(second["id"]))
		})
	})

	Describe("GET /api/queries/:id", func() {
		It("returns the job and eventually its result", func() {
			_, created := do(http.MethodPost, "/api/search", []byte(`{"keywords":"Jane Doe","fields_to_find":["email"]}`))
			id := created["id"].(string)

			Eventually(func() interface{} {
				_, out := do(http.MethodGet, "/api/queries/"+id, nil)
				return out["status"]
			}).Should(Equal("completed"))

			resp, out := do(http.MethodGet, "/api/queries/"+id, nil)
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(out["result"]).To(HaveKeyWithValue("email", "jane@acme.com"))
			Expect(out["result"]).To(HaveKeyWithValue("full_name", BeNil()))
			Expect(out["completed_at"]).NotTo(BeNil())
		})

		It("returns 404 for an unknown id", func() {
			resp, out := do(http.MethodGet, "/api/queries/does-not-exist", nil)

			Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
			Expect(out["detail"]).To(Equal("Query not found"))
		})
	})
})
