package client

import (
	"context"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"cloud.google.com/go/civil"

	"github.com/dukerupert/smartfood/internal/config"
	"github.com/dukerupert/smartfood/internal/database"
	"github.com/dukerupert/smartfood/internal/logging"
	"github.com/dukerupert/smartfood/internal/model"
	"github.com/dukerupert/smartfood/internal/server"
	hub "github.com/dukerupert/smartfood/internal/websocket"
)

type testEnv struct {
	srv    *server.Server
	ts     *httptest.Server
	errs   *errorLog
	client *Client
}

type errorLog struct {
	mu   sync.Mutex
	errs []error
}

func (l *errorLog) notify(err error) {
	l.mu.Lock()
	l.errs = append(l.errs, err)
	l.mu.Unlock()
}

func (l *errorLog) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.errs)
}

func setup(t *testing.T) testEnv {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		JWTSecret:          "0123456789abcdef0123456789abcdef",
		TokenTTL:           time.Hour,
		WastePerItem:       25000,
		SavingsRate:        0.15,
		ReportMonths:       6,
		CookableMaxMissing: 2,
		MatchMode:          "exact",
	}
	srv := server.New(db, cfg, nil, logging.Discard())
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	env := testEnv{srv: srv, ts: ts, errs: &errorLog{}}
	env.client = env.newClient()
	return env
}

func (e testEnv) newClient() *Client {
	return New(Config{BaseURL: e.ts.URL, Logger: logging.Discard(), Notify: e.errs.notify})
}

func TestAddListDeleteRoundTrip(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	c := env.client

	first, err := c.Groceries.Add(ctx, model.GroceryDraft{ItemName: "Bắp cải", Amount: "1 bắp"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	second, err := c.Groceries.Add(ctx, model.GroceryDraft{ItemName: "Nước ngọt", Amount: "6 lon"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	items := c.Groceries.List()
	if len(items) != 2 || items[0].ID != second.ID || items[1].ID != first.ID {
		t.Fatalf("List = %+v, want newest first", items)
	}
	if first.ItemType != "Rau củ" {
		t.Errorf("ItemType = %q, want server categorized", first.ItemType)
	}

	if err := c.Groceries.Delete(ctx, first.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if items := c.Groceries.List(); len(items) != 1 || items[0].ID != second.ID {
		t.Errorf("List after delete = %+v", items)
	}

	other := env.newClient()
	if err := other.Groceries.Refetch(ctx); err != nil {
		t.Fatalf("Refetch: %v", err)
	}
	if items := other.Groceries.List(); len(items) != 1 || items[0].ID != second.ID {
		t.Errorf("server list = %+v", items)
	}
}

func TestListReturnsCopy(t *testing.T) {
	env := setup(t)
	c := env.client
	c.Dishes.Add(context.Background(), model.DishDraft{Name: "Gỏi cuốn"})

	items := c.Dishes.List()
	items[0].Name = "changed"
	if got := c.Dishes.List()[0].Name; got != "Gỏi cuốn" {
		t.Errorf("cache mutated through List: %q", got)
	}
}

func TestUpdateReplacesInPlace(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	c := env.client

	a, err := c.Fridge.Add(ctx, model.FridgeDraft{Name: "Cá thu", Quantity: "1", Location: "freezer", ExpiryDate: civil.Date{Year: 2030, Month: 1, Day: 1}})
	if err != nil {
		t.Fatalf("add first: %v", err)
	}
	b, err := c.Fridge.Add(ctx, model.FridgeDraft{Name: "Sữa", Quantity: "1", Location: "fridge", ExpiryDate: civil.Date{Year: 2030, Month: 1, Day: 1}})
	if err != nil {
		t.Fatalf("add second: %v", err)
	}

	qty := "2"
	if _, err := c.Fridge.Update(ctx, a.ID, model.FridgePatch{Quantity: &qty}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	items := c.Fridge.List()
	if items[0].ID != b.ID || items[1].ID != a.ID || items[1].Quantity != "2" {
		t.Errorf("List = %+v", items)
	}
}

func TestFridgeAddDefaultsAddedDate(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	c := env.client

	before := civil.DateOf(time.Now())
	item, err := c.Fridge.Add(ctx, model.FridgeDraft{Name: "Sữa", Quantity: "1 hộp", Location: "fridge", ExpiryDate: civil.Date{Year: 2030, Month: 1, Day: 1}})
	if err != nil {
		t.Fatalf("Add without added date: %v", err)
	}
	after := civil.DateOf(time.Now())
	if item.AddedDate.Before(before) || item.AddedDate.After(after) {
		t.Errorf("AddedDate = %v, want today", item.AddedDate)
	}

	added := civil.Date{Year: 2029, Month: 12, Day: 24}
	item, err = c.Fridge.Add(ctx, model.FridgeDraft{Name: "Bơ", Quantity: "1", Location: "fridge", ExpiryDate: civil.Date{Year: 2030, Month: 1, Day: 1}, AddedDate: &added})
	if err != nil {
		t.Fatalf("Add with added date: %v", err)
	}
	if item.AddedDate != added {
		t.Errorf("AddedDate = %v, want %v", item.AddedDate, added)
	}
	if got := len(c.Fridge.List()); got != 2 {
		t.Errorf("cache len = %d, want 2", got)
	}
}

func TestMealPlansAppend(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	c := env.client

	dish, err := c.Dishes.Add(ctx, model.DishDraft{Name: "Bún riêu"})
	if err != nil {
		t.Fatalf("add dish: %v", err)
	}
	d1 := civil.Date{Year: 2024, Month: 3, Day: 11}
	a, err := c.MealPlans.Add(ctx, model.MealPlanDraft{DishID: dish.ID, Date: d1, TimeOfDay: model.Lunch})
	if err != nil {
		t.Fatalf("add first plan: %v", err)
	}
	b, err := c.MealPlans.Add(ctx, model.MealPlanDraft{DishID: dish.ID, Date: d1.AddDays(1), TimeOfDay: model.Lunch})
	if err != nil {
		t.Fatalf("add second plan: %v", err)
	}

	items := c.MealPlans.List()
	if len(items) != 2 || items[0].ID != a.ID || items[1].ID != b.ID {
		t.Errorf("List = %+v, want append order", items)
	}
	if items[0].Dish == nil || items[0].Dish.Name != "Bún riêu" {
		t.Errorf("Dish not embedded: %+v", items[0].Dish)
	}
}

func TestAddInvalidSendsNothing(t *testing.T) {
	env := setup(t)
	c := env.client

	_, err := c.Groceries.Add(context.Background(), model.GroceryDraft{Amount: "1"})
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("err = %v, want ErrInvalid", err)
	}
	if env.errs.count() != 1 {
		t.Errorf("notified %d times, want 1", env.errs.count())
	}
	if len(c.Groceries.List()) != 0 {
		t.Error("cache changed")
	}

	other := env.newClient()
	other.Groceries.Refetch(context.Background())
	if len(other.Groceries.List()) != 0 {
		t.Error("invalid draft reached the server")
	}
}

func TestRejectedAndTransportErrors(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	name := "Tôm"
	_, err := env.client.Groceries.Update(ctx, 999, model.GroceryPatch{ItemName: &name})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != 404 {
		t.Fatalf("err = %v, want 404 APIError", err)
	}
	if !errors.Is(err, ErrRejected) || !IsNotFound(err) {
		t.Errorf("err = %v, want ErrRejected and not found", err)
	}
	if apiErr.Message != "item not found" {
		t.Errorf("Message = %q", apiErr.Message)
	}

	env.ts.Close()
	if err := env.client.Dishes.Refetch(ctx); !errors.Is(err, ErrTransport) {
		t.Errorf("err = %v, want ErrTransport", err)
	}
	if env.errs.count() != 2 {
		t.Errorf("notified %d times, want 2", env.errs.count())
	}
}

func TestComplete(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	c := env.client

	item, err := c.Groceries.Add(ctx, model.GroceryDraft{ItemName: "Thịt ba chỉ", Amount: "500g", AddedBy: "Hà", Price: ptr(int64(90000))})
	if err != nil {
		t.Fatalf("add grocery: %v", err)
	}

	if _, err := c.Groceries.Complete(ctx, 12345); !errors.Is(err, ErrNotCached) {
		t.Errorf("err = %v, want ErrNotCached", err)
	}

	rec, err := c.Groceries.Complete(ctx, item.ID)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if rec.ItemName != "Thịt ba chỉ" || rec.PurchasedBy != "Hà" || rec.PriceOrZero() != 90000 {
		t.Errorf("record = %+v", rec)
	}
	if got, _ := c.Groceries.Get(item.ID); !got.Completed {
		t.Error("cached item not completed")
	}
	if p := c.Purchases.List(); len(p) != 1 || p[0].ID != rec.ID {
		t.Errorf("purchases = %+v", p)
	}

	if _, err := c.Groceries.Complete(ctx, item.ID); !errors.Is(err, ErrAlreadyCompleted) {
		t.Errorf("err = %v, want ErrAlreadyCompleted", err)
	}

	// A client with a stale cache is turned away by the server.
	stale := env.newClient()
	stale.Groceries.cache.set([]model.GroceryItem{{ID: item.ID, ItemName: item.ItemName}})
	_, err = stale.Groceries.Complete(ctx, item.ID)
	if !errors.Is(err, ErrAlreadyCompleted) || !errors.Is(err, ErrRejected) {
		t.Errorf("err = %v, want ErrAlreadyCompleted from server", err)
	}

	if err := c.Purchases.Refetch(ctx); err != nil {
		t.Fatalf("Refetch: %v", err)
	}
	if n := len(c.Purchases.List()); n != 1 {
		t.Errorf("purchase records = %d, want 1", n)
	}
}

func TestSetCompletedAndMoveToFridge(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	c := env.client

	item, err := c.Groceries.Add(ctx, model.GroceryDraft{ItemName: "Phô mai", Amount: "1 hộp"})
	if err != nil {
		t.Fatalf("add grocery: %v", err)
	}
	got, err := c.Groceries.SetCompleted(ctx, item.ID, true)
	if err != nil || !got.Completed {
		t.Fatalf("SetCompleted = %+v, %v", got, err)
	}
	if err := c.Purchases.Refetch(ctx); err != nil || len(c.Purchases.List()) != 0 {
		t.Errorf("toggle wrote purchase history: %v", c.Purchases.List())
	}

	expiry := civil.Date{Year: 2030, Month: 6, Day: 1}
	f, err := c.Groceries.MoveToFridge(ctx, item.ID, "fridge", expiry)
	if err != nil {
		t.Fatalf("MoveToFridge: %v", err)
	}
	if f.Name != "Phô mai" || f.ExpiryDate != expiry {
		t.Errorf("fridge item = %+v", f)
	}
	if items := c.Fridge.List(); len(items) != 1 || items[0].ID != f.ID {
		t.Errorf("fridge cache = %+v", items)
	}

	if _, err := c.Groceries.MoveToFridge(ctx, item.ID, "", expiry); !errors.Is(err, ErrInvalid) {
		t.Errorf("err = %v, want ErrInvalid", err)
	}
}

func TestShoppingListsNeedToken(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	c := env.client

	draft := model.ShoppingListDraft{Name: "Tuần này", Type: model.ListWeekly}
	if _, err := c.ShoppingLists.Add(ctx, draft); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("err = %v, want ErrMissingToken", err)
	}

	if _, err := c.Register(ctx, model.Credentials{Email: "lan@example.com", Password: "rau-muong-xao"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	l, err := c.ShoppingLists.Add(ctx, draft)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	name := "Cuối tuần"
	if _, err := c.ShoppingLists.Update(ctx, l.ID, model.ShoppingListPatch{Name: &name}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := c.ShoppingLists.List(); len(got) != 1 || got[0].Name != name {
		t.Errorf("List = %+v", got)
	}

	if err := c.RefetchAll(ctx); err != nil {
		t.Errorf("RefetchAll: %v", err)
	}
}

func TestRefetchAfterCloseDiscarded(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	writer := env.newClient()
	if _, err := writer.Dishes.Add(ctx, model.DishDraft{Name: "Chè"}); err != nil {
		t.Fatalf("add dish: %v", err)
	}

	c := env.client
	c.Close()
	if err := c.Dishes.Refetch(ctx); err != nil {
		t.Fatalf("Refetch: %v", err)
	}
	if n := len(c.Dishes.List()); n != 0 {
		t.Errorf("cache has %d items after close, want 0", n)
	}
}

func TestWatchRefetchesOnChange(t *testing.T) {
	env := setup(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	watcher := env.newClient()
	changes := make(chan hub.Message, 8)
	done := make(chan error, 1)
	go func() { done <- watcher.Watch(ctx, func(m hub.Message) { changes <- m }) }()

	for env.srv.Hub().ClientCount() == 0 {
		select {
		case <-ctx.Done():
			t.Fatal("watcher never connected")
		case <-time.After(10 * time.Millisecond):
		}
	}

	created, err := env.client.FamilyMembers.Add(ctx, model.FamilyMemberDraft{Name: "Minh", Email: "minh@example.com"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	select {
	case m := <-changes:
		if m.Entity != hub.EntityFamilyMembers || m.ID != created.ID {
			t.Errorf("message = %+v", m)
		}
	case <-ctx.Done():
		t.Fatal("no change received")
	}
	if got := watcher.FamilyMembers.List(); len(got) != 1 || got[0].Name != "Minh" {
		t.Errorf("watcher cache = %+v", got)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Watch = %v, want nil after cancel", err)
	}
}

func TestWSURL(t *testing.T) {
	tests := []struct{ in, want string }{
		{"http://localhost:8080", "ws://localhost:8080/ws"},
		{"https://food.example.com/", "wss://food.example.com/ws"},
	}
	for _, tt := range tests {
		if got := wsURL(tt.in); got != tt.want {
			t.Errorf("wsURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func ptr[T any](v T) *T { return &v }
