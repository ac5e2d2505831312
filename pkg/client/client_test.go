package client_test

import (
	"context"
	"net/http"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kpauljoseph/flashgen/pkg/client"
	"github.com/kpauljoseph/flashgen/pkg/models"
)

var _ = Describe("Client", func() {
	var (
		backend *fakeBackend
		c       *client.Client
		ctx     context.Context
	)

	BeforeEach(func() {
		backend = newFakeBackend()
		DeferCleanup(backend.Close)

		var err error
		c, err = client.New(backend.URL, client.WithLogger(clientTestLogger()))
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()
	})

	Context("construction", func() {
		It("should reject a server url without scheme or host", func() {
			_, err := client.New("localhost")
			Expect(err).To(HaveOccurred())

			_, err = client.New("://bad")
			Expect(err).To(HaveOccurred())
		})

		It("should mount endpoints under /api by default", func() {
			Expect(c.BaseURL()).To(Equal(backend.URL + "/api"))

			_, err := c.HealthCheck(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(backend.last().Path).To(Equal("/api/health"))
		})

		It("should honour a custom prefix", func() {
			custom, err := client.New(backend.URL+"/", client.WithPathPrefix("/v2/"))
			Expect(err).NotTo(HaveOccurred())
			Expect(custom.BaseURL()).To(Equal(backend.URL + "/v2"))

			_, err = custom.HealthCheck(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(backend.last().Path).To(Equal("/v2/health"))
		})

		It("should serve from the root with an empty prefix", func() {
			root, err := client.New(backend.URL, client.WithPathPrefix(""))
			Expect(err).NotTo(HaveOccurred())

			_, err = root.HealthCheck(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(backend.last().Path).To(Equal("/health"))
		})

		It("should send identifying headers with every request", func() {
			withHeader, err := client.New(backend.URL, client.WithHeader("X-Client", "cli"))
			Expect(err).NotTo(HaveOccurred())

			_, err = withHeader.HealthCheck(ctx)
			Expect(err).NotTo(HaveOccurred())
			first := backend.last().Header.Get(client.RequestIDHeader)

			_, err = withHeader.HealthCheck(ctx)
			Expect(err).NotTo(HaveOccurred())
			h := backend.last().Header

			Expect(h.Get("User-Agent")).To(HavePrefix("flashgen/"))
			Expect(h.Get("X-Client")).To(Equal("cli"))
			Expect(first).NotTo(BeEmpty())
			Expect(h.Get(client.RequestIDHeader)).NotTo(Equal(first))
		})
	})

	Context("HealthCheck", func() {
		It("should return the health payload", func() {
			backend.respond(http.StatusOK, `{"status":"ok","ocr_available":true,"pptx_available":false,"api_available":true}`)

			health, err := c.HealthCheck(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(*health).To(Equal(models.HealthStatus{
				Status:       "ok",
				OCRAvailable: true,
				APIAvailable: true,
			}))
			Expect(backend.last().Method).To(Equal(http.MethodGet))
		})
	})

	Context("GenerateFlashcards", func() {
		It("should post the session and text", func() {
			backend.respond(http.StatusOK, `{"success":true,"flashcards":[{"question":"q","answer":"a"}],"count":1}`)

			set, err := c.GenerateFlashcards(ctx, "s1", "photosynthesis")
			Expect(err).NotTo(HaveOccurred())
			Expect(set.Success).To(BeTrue())
			Expect(set.Flashcards).To(Equal([]models.Flashcard{{Question: "q", Answer: "a"}}))
			Expect(set.Count).To(Equal(1))

			req := backend.last()
			Expect(req.Method).To(Equal(http.MethodPost))
			Expect(req.Path).To(Equal("/api/generate"))
			Expect(req.Body).To(MatchJSON(`{"session_id":"s1","text":"photosynthesis"}`))
		})

		It("should send an empty text when none is given", func() {
			_, err := c.GenerateFlashcards(ctx, "s1", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(backend.last().Body).To(MatchJSON(`{"session_id":"s1","text":""}`))
		})
	})

	Context("GetFlashcards", func() {
		It("should pass the session as a query parameter", func() {
			backend.respond(http.StatusOK, `{"flashcards":[{"question":"q","answer":"a"}],"filename":"notes.pdf","count":1}`)

			set, err := c.GetFlashcards(ctx, "s 1")
			Expect(err).NotTo(HaveOccurred())
			Expect(set.Filename).To(Equal("notes.pdf"))
			Expect(set.Flashcards).To(HaveLen(1))

			req := backend.last()
			Expect(req.Method).To(Equal(http.MethodGet))
			Expect(req.Path).To(Equal("/api/flashcards"))
			Expect(req.Query["session_id"]).To(Equal([]string{"s 1"}))
		})
	})

	Context("SaveFlashcards", func() {
		It("should post the full list", func() {
			backend.respond(http.StatusOK, `{"success":true,"session_id":"s1"}`)

			res, err := c.SaveFlashcards(ctx, "s1", []models.Flashcard{{Question: "q", Answer: "a"}})
			Expect(err).NotTo(HaveOccurred())
			Expect(*res).To(Equal(models.MutationResult{Success: true, SessionID: "s1"}))

			req := backend.last()
			Expect(req.Method).To(Equal(http.MethodPost))
			Expect(req.Path).To(Equal("/api/flashcards"))
			Expect(req.Body).To(MatchJSON(`{"session_id":"s1","flashcards":[{"question":"q","answer":"a"}]}`))
		})

		It("should send an empty list rather than null", func() {
			_, err := c.SaveFlashcards(ctx, "s1", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(backend.last().Body).To(MatchJSON(`{"session_id":"s1","flashcards":[]}`))
		})
	})

	Context("UpdateFlashcard", func() {
		It("should put the card at its index", func() {
			backend.respond(http.StatusOK, `{"success":true}`)

			res, err := c.UpdateFlashcard(ctx, "s1", 3, "new q", "new a")
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Success).To(BeTrue())

			req := backend.last()
			Expect(req.Method).To(Equal(http.MethodPut))
			Expect(req.Path).To(Equal("/api/flashcards/3"))
			Expect(req.Body).To(MatchJSON(`{"session_id":"s1","question":"new q","answer":"new a"}`))
		})
	})

	Context("DeleteFlashcard", func() {
		It("should delete by index with the session in the query", func() {
			backend.respond(http.StatusOK, `{"success":true,"count":4}`)

			res, err := c.DeleteFlashcard(ctx, "s1", 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Count).To(Equal(4))

			req := backend.last()
			Expect(req.Method).To(Equal(http.MethodDelete))
			Expect(req.Path).To(Equal("/api/flashcards/0"))
			Expect(req.Query["session_id"]).To(Equal([]string{"s1"}))
		})
	})

	Context("AddFlashcard", func() {
		It("should post the new card", func() {
			backend.respond(http.StatusOK, `{"success":true,"session_id":"s1","count":6}`)

			res, err := c.AddFlashcard(ctx, "s1", "q", "a")
			Expect(err).NotTo(HaveOccurred())
			Expect(*res).To(Equal(models.MutationResult{Success: true, SessionID: "s1", Count: 6}))

			req := backend.last()
			Expect(req.Path).To(Equal("/api/flashcards/add"))
			Expect(req.Body).To(MatchJSON(`{"session_id":"s1","question":"q","answer":"a"}`))
		})
	})

	Context("EnhanceFlashcards", func() {
		It("should post the selected indices", func() {
			backend.respond(http.StatusOK, `{"success":true,"count":2}`)

			res, err := c.EnhanceFlashcards(ctx, "s1", 0, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Count).To(Equal(2))

			req := backend.last()
			Expect(req.Path).To(Equal("/api/enhance"))
			Expect(req.Body).To(MatchJSON(`{"session_id":"s1","indices":[0,2]}`))
		})

		It("should send an empty list when no indices are given", func() {
			_, err := c.EnhanceFlashcards(ctx, "s1")
			Expect(err).NotTo(HaveOccurred())
			Expect(backend.last().Body).To(MatchJSON(`{"session_id":"s1","indices":[]}`))
		})
	})

	Context("ExportFlashcards", func() {
		It("should return the raw body for a binary export", func() {
			payload := "Q\tA\n\x00\xff"
			backend.setContentType("text/tab-separated-values")
			backend.setHeader("Content-Disposition", `attachment; filename=notes_anki.tsv`)
			backend.respond(http.StatusOK, payload)

			export, err := c.ExportFlashcards(ctx, "s1", "tsv")
			Expect(err).NotTo(HaveOccurred())
			Expect(export.Data).To(Equal([]byte(payload)))
			Expect(export.Filename).To(Equal("notes_anki.tsv"))
			Expect(export.ContentType).To(Equal("text/tab-separated-values"))

			req := backend.last()
			Expect(req.Method).To(Equal(http.MethodPost))
			Expect(req.Path).To(Equal("/api/export"))
			Expect(req.Body).To(MatchJSON(`{"session_id":"s1","format":"tsv"}`))
		})

		It("should not decode a JSON export", func() {
			payload := `[ {"question": "q",  "answer": "a"} ]`
			backend.respond(http.StatusOK, payload)

			export, err := c.ExportFlashcards(ctx, "s1", "json")
			Expect(err).NotTo(HaveOccurred())
			Expect(string(export.Data)).To(Equal(payload))
			Expect(export.Filename).To(BeEmpty())
		})
	})

	Context("ImportJSON", func() {
		It("should post the cards", func() {
			backend.respond(http.StatusOK, `{"success":true,"session_id":"new","count":1}`)

			res, err := c.ImportJSON(ctx, []models.Flashcard{{Question: "q", Answer: "a"}})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.SessionID).To(Equal("new"))

			req := backend.last()
			Expect(req.Path).To(Equal("/api/import-json"))
			Expect(req.Body).To(MatchJSON(`{"flashcards":[{"question":"q","answer":"a"}]}`))
		})
	})

	Context("ParseText", func() {
		It("should post the text and separator", func() {
			backend.respond(http.StatusOK, `{"success":true,"session_id":"p1","flashcards":[{"question":"a","answer":"b"}],"count":1}`)

			set, err := c.ParseText(ctx, "a|b", "|")
			Expect(err).NotTo(HaveOccurred())
			Expect(set.SessionID).To(Equal("p1"))
			Expect(set.Flashcards).To(Equal([]models.Flashcard{{Question: "a", Answer: "b"}}))

			req := backend.last()
			Expect(req.Path).To(Equal("/api/parse-text"))
			Expect(req.Body).To(MatchJSON(`{"text":"a|b","separator":"|"}`))
		})

		It("should default the separator to a semicolon", func() {
			_, err := c.ParseText(ctx, "a;b", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(backend.last().Body).To(MatchJSON(`{"text":"a;b","separator":";"}`))
		})
	})

	Context("Session", func() {
		It("should forward its id to every session-scoped call", func() {
			s := c.Session("bound")
			Expect(s.ID()).To(Equal("bound"))

			calls := []func() error{
				func() error { _, err := s.Generate(ctx, ""); return err },
				func() error { _, err := s.Save(ctx, nil); return err },
				func() error { _, err := s.Update(ctx, 1, "q", "a"); return err },
				func() error { _, err := s.Add(ctx, "q", "a"); return err },
				func() error { _, err := s.Enhance(ctx); return err },
				func() error { _, err := s.Export(ctx, "csv"); return err },
			}
			for _, call := range calls {
				Expect(call()).To(Succeed())
				Expect(backend.last().Body).To(ContainSubstring(`"session_id":"bound"`))
			}

			_, err := s.Flashcards(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(backend.last().Query["session_id"]).To(Equal([]string{"bound"}))

			_, err = s.Delete(ctx, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(backend.last().Query["session_id"]).To(Equal([]string{"bound"}))
			Expect(strings.HasSuffix(backend.last().Path, "/flashcards/2")).To(BeTrue())
		})
	})
})
