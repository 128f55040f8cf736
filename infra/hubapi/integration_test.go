package hubapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/volunteerhub/hubterm/app"
	"github.com/volunteerhub/hubterm/reconcile"
)

type staticToken string

func (s staticToken) AccessToken() (string, error) { return string(s), nil }

type handlerRoundTripper struct {
	h http.Handler
}

func (rt handlerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	rec := newResponseRecorder()
	rt.h.ServeHTTP(rec, req)
	return rec.response(req), nil
}

type responseRecorder struct {
	header http.Header
	body   strings.Builder
	code   int
}

func newResponseRecorder() *responseRecorder {
	return &responseRecorder{header: make(http.Header), code: http.StatusOK}
}

func (r *responseRecorder) Header() http.Header         { return r.header }
func (r *responseRecorder) Write(p []byte) (int, error) { return r.body.Write(p) }
func (r *responseRecorder) WriteHeader(statusCode int)  { r.code = statusCode }

func (r *responseRecorder) response(req *http.Request) *http.Response {
	return &http.Response{
		StatusCode: r.code,
		Header:     r.header.Clone(),
		Body:       io.NopCloser(strings.NewReader(r.body.String())),
		Request:    req,
	}
}

func newTestClient(h http.Handler) *Client {
	return newTestClientWithToken(h, "tok")
}

func newTestClientWithToken(h http.Handler, token string) *Client {
	return &Client{
		baseURL:       "http://example.test",
		tokenProvider: staticToken(token),
		http:          &http.Client{Transport: handlerRoundTripper{h: h}},
	}
}

// decodeGQL pulls the operation body out of an incoming GraphQL request.
func decodeGQL(t *testing.T, r *http.Request) gqlRequest {
	t.Helper()
	var req gqlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		t.Fatalf("bad graphql request body: %v", err)
	}
	return req
}

func gqlData(t *testing.T, payload map[string]any) string {
	t.Helper()
	raw, err := json.Marshal(map[string]any{"data": payload})
	if err != nil {
		t.Fatalf("encoding response: %v", err)
	}
	return string(raw)
}

func TestFeedService_EventWall_RequestShapeAndMapping(t *testing.T) {
	var gotPath, gotAuth string
	var gotReq gqlRequest

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		gotReq = decodeGQL(t, r)
		_, _ = io.WriteString(w, gqlData(t, map[string]any{
			"getEvent": map[string]any{
				"eventId":          777627648166723584,
				"eventName":        "Beach Cleanup",
				"eventDescription": "Monthly shoreline cleanup",
				"eventLocation":    "Pier 14",
				"memberCount":      42,
				"postCount":        2,
				"listPosts": map[string]any{
					"content": []map[string]any{{
						"postId":    101,
						"eventId":   777627648166723584,
						"title":     "Supplies",
						"content":   "Bring gloves",
						"createdAt": "2026-08-30T09:15:00",
						"likeCount": 3,
						"isLiked":   true,
						"creatorInfo": map[string]any{
							"userId":   9001,
							"username": "organizer",
						},
						"listComment": map[string]any{
							"content": []map[string]any{{
								"commentId": 5001,
								"postId":    101,
								"content":   "On it",
								"createdAt": "2026-08-30T10:00:00",
								"creatorInfo": map[string]any{
									"userId":   9002,
									"username": "helper",
								},
							}},
						},
					}},
				},
			},
		}))
	})

	svc := NewFeedService(newTestClient(h), "9002")
	event, posts, err := svc.EventWall(context.Background(), "777627648166723584")
	if err != nil {
		t.Fatalf("event wall failed: %v", err)
	}
	if gotPath != "/graphql" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotAuth != "Bearer tok" {
		t.Fatalf("missing auth header: %q", gotAuth)
	}
	if gotReq.Variables["eventId"] != "777627648166723584" {
		t.Fatalf("unexpected variables: %#v", gotReq.Variables)
	}
	if !strings.Contains(gotReq.Query, "getEvent") || !strings.Contains(gotReq.Query, "listComment") {
		t.Fatalf("query missing expected selections: %s", gotReq.Query)
	}

	if event.ID != "777627648166723584" || event.Title != "Beach Cleanup" {
		t.Fatalf("unexpected event mapping: %#v", event)
	}
	if len(posts) != 1 {
		t.Fatalf("expected 1 post, got %d", len(posts))
	}
	post := posts[0]
	if post.ID != "101" || post.AuthorID != "9001" || !post.Liked || post.LikeCount != 3 {
		t.Fatalf("unexpected post mapping: %#v", post)
	}
	if post.IsOwn {
		t.Fatalf("viewer is not the author, IsOwn must be false")
	}
	if len(post.Comments) != 1 || post.Comments[0].ID != "5001" || !post.Comments[0].IsOwn {
		t.Fatalf("unexpected comment mapping: %#v", post.Comments)
	}
	if post.CreatedAt.IsZero() {
		t.Fatalf("zone-less timestamp should parse")
	}
}

func TestFeedService_Mutations_RequestShape(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := decodeGQL(t, r)
		switch {
		case strings.Contains(req.Query, "createPost"):
			input := req.Variables["input"].(map[string]any)
			if input["eventId"] != "e1" || input["content"] != "Bring gloves" || input["title"] != "Supplies" {
				t.Fatalf("unexpected createPost input: %#v", input)
			}
			_, _ = io.WriteString(w, gqlData(t, map[string]any{
				"createPost": map[string]any{"ok": true, "id": 101, "createdAt": "2026-08-30T09:15:00"},
			}))
		case strings.Contains(req.Query, "deletePost"):
			if req.Variables["postId"] != "101" {
				t.Fatalf("unexpected deletePost variables: %#v", req.Variables)
			}
			_, _ = io.WriteString(w, gqlData(t, map[string]any{
				"deletePost": map[string]any{"ok": true},
			}))
		case strings.Contains(req.Query, "createComment"):
			input := req.Variables["input"].(map[string]any)
			if input["postId"] != "101" || input["content"] != "On it" {
				t.Fatalf("unexpected createComment input: %#v", input)
			}
			_, _ = io.WriteString(w, gqlData(t, map[string]any{
				"createComment": map[string]any{"ok": true, "id": 5001, "createdAt": "2026-08-30T10:00:00"},
			}))
		case strings.Contains(req.Query, "deleteComment"):
			_, _ = io.WriteString(w, gqlData(t, map[string]any{
				"deleteComment": map[string]any{"ok": true},
			}))
		case strings.Contains(req.Query, "like"):
			input := req.Variables["input"].(map[string]any)
			if input["targetType"] != "POST" || input["targetId"] != "101" {
				t.Fatalf("unexpected like input: %#v", input)
			}
			_, _ = io.WriteString(w, gqlData(t, map[string]any{
				"like": map[string]any{"ok": true},
			}))
		default:
			t.Fatalf("unexpected operation: %s", req.Query)
		}
	})

	svc := NewFeedService(newTestClient(h), "9002")
	ctx := context.Background()

	created, err := svc.CreatePost(ctx, "e1", "Supplies", "Bring gloves")
	if err != nil {
		t.Fatalf("create post failed: %v", err)
	}
	if created.ID != "101" || created.CreatedAt.IsZero() {
		t.Fatalf("unexpected created mapping: %#v", created)
	}
	if err := svc.DeletePost(ctx, "101"); err != nil {
		t.Fatalf("delete post failed: %v", err)
	}
	cc, err := svc.CreateComment(ctx, "101", "On it")
	if err != nil {
		t.Fatalf("create comment failed: %v", err)
	}
	if cc.ID != "5001" {
		t.Fatalf("unexpected comment id: %q", cc.ID)
	}
	if err := svc.DeleteComment(ctx, "5001"); err != nil {
		t.Fatalf("delete comment failed: %v", err)
	}
	if err := svc.ToggleLike(ctx, "101", app.TargetPost); err != nil {
		t.Fatalf("toggle like failed: %v", err)
	}
}

func TestFeedService_RejectedMutationSurfacesMessage(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, gqlData(t, map[string]any{
			"deletePost": map[string]any{"ok": false, "message": "Post not found"},
		}))
	})

	svc := NewFeedService(newTestClient(h), "9002")
	err := svc.DeletePost(context.Background(), "101")
	if err == nil {
		t.Fatalf("expected error for rejected mutation")
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Message != "Post not found" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEventService_ListAndRegistrations(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := decodeGQL(t, r)
		switch {
		case strings.Contains(req.Query, "findEvents"):
			if req.Variables["page"] != float64(0) || req.Variables["size"] != float64(10) {
				t.Fatalf("unexpected paging variables: %#v", req.Variables)
			}
			_, _ = io.WriteString(w, gqlData(t, map[string]any{
				"findEvents": map[string]any{
					"content": []map[string]any{{
						"eventId":          777627648166723584,
						"eventName":        "Beach Cleanup",
						"eventDescription": "Monthly shoreline cleanup",
						"eventLocation":    "Pier 14",
						"memberCount":      42,
						"postCount":        12,
					}},
				},
			}))
		case strings.Contains(req.Query, "unregisterEvent"):
			_, _ = io.WriteString(w, gqlData(t, map[string]any{
				"unregisterEvent": map[string]any{"ok": true},
			}))
		case strings.Contains(req.Query, "registerEvent"):
			if req.Variables["eventId"] != "777627648166723584" {
				t.Fatalf("unexpected register variables: %#v", req.Variables)
			}
			_, _ = io.WriteString(w, gqlData(t, map[string]any{
				"registerEvent": map[string]any{"ok": true},
			}))
		case strings.Contains(req.Query, "myRegisteredEventIds"):
			_, _ = io.WriteString(w, gqlData(t, map[string]any{
				"myRegisteredEventIds": []any{777627648166723584, "888000111222333444"},
			}))
		default:
			t.Fatalf("unexpected operation: %s", req.Query)
		}
	})

	svc := NewEventService(newTestClient(h))
	ctx := context.Background()

	events, err := svc.ListEvents(ctx, 0, 10)
	if err != nil {
		t.Fatalf("list events failed: %v", err)
	}
	if len(events) != 1 || events[0].ID != "777627648166723584" || events[0].PostCount != 12 {
		t.Fatalf("unexpected events mapping: %#v", events)
	}

	if err := svc.Register(ctx, "777627648166723584"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := svc.Unregister(ctx, "777627648166723584"); err != nil {
		t.Fatalf("unregister failed: %v", err)
	}

	ids, err := svc.RegisteredEventIDs(ctx)
	if err != nil {
		t.Fatalf("registered ids failed: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected raw heterogeneous ids, got %#v", ids)
	}
	if _, ok := ids[0].(json.Number); !ok {
		t.Fatalf("numeric ids must arrive as json.Number, got %T", ids[0])
	}
}

func TestClient_GraphQLErrorCarriesCode(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"errors":[{"message":"Bạn đã đăng ký sự kiện này","extensions":{"code":"ALREADY_REGISTERED"}}]}`)
	})

	svc := NewEventService(newTestClient(h))
	err := svc.Register(context.Background(), "e1")
	if err == nil {
		t.Fatalf("expected graphql error")
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if apiErr.ErrorCode() != "ALREADY_REGISTERED" {
		t.Fatalf("unexpected code: %q", apiErr.ErrorCode())
	}
	if got := reconcile.Classify(reconcile.KindRegister, err); got != reconcile.AlreadyInTargetState {
		t.Fatalf("coded duplicate should classify as already-in-target-state, got %v", got)
	}
}

func TestClient_HTTPErrorStatus(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"message":"boom"}`)
	})

	svc := NewEventService(newTestClient(h))
	err := svc.Register(context.Background(), "e1")
	if err == nil {
		t.Fatalf("expected error for 500")
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusInternalServerError {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(apiErr.Message, "boom") {
		t.Fatalf("expected server message, got %q", apiErr.Message)
	}
}

func TestAccountService_CurrentUser(t *testing.T) {
	token := fakeJWT(t, map[string]any{"sub": 9002})

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := decodeGQL(t, r)
		if !strings.Contains(req.Query, "getUserProfile") || req.Variables["userId"] != "9002" {
			t.Fatalf("unexpected profile request: %#v", req)
		}
		_, _ = io.WriteString(w, gqlData(t, map[string]any{
			"getUserProfile": map[string]any{
				"userId":   9002,
				"username": "helper",
				"fullName": "Trần Thị Vân",
			},
		}))
	})

	svc := NewAccountService(newTestClientWithToken(h, token))
	profile, err := svc.CurrentUser(context.Background())
	if err != nil {
		t.Fatalf("current user failed: %v", err)
	}
	if profile.ID != "9002" || profile.Username != "helper" || profile.Name != "Trần Thị Vân" {
		t.Fatalf("unexpected profile: %#v", profile)
	}
}

func TestAccountService_FallsBackToTokenSubject(t *testing.T) {
	token := fakeJWT(t, map[string]any{"sub": "u1"})
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"message":"no profile"}`)
	})

	svc := NewAccountService(newTestClientWithToken(h, token))
	profile, err := svc.CurrentUser(context.Background())
	if err != nil {
		t.Fatalf("current user should tolerate a missing profile: %v", err)
	}
	if profile.ID != "u1" || profile.Username != "" {
		t.Fatalf("unexpected fallback profile: %#v", profile)
	}
}

func fakeJWT(t *testing.T, claims map[string]any) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	raw, err := json.Marshal(claims)
	if err != nil {
		t.Fatalf("marshal claims failed: %v", err)
	}
	payload := base64.RawURLEncoding.EncodeToString(raw)
	return header + "." + payload + ".sig"
}
