package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apotek/internal/auth"
	"apotek/internal/database"
	"apotek/internal/handlers"
	"apotek/internal/logger"
	"apotek/internal/models"
	"apotek/internal/services"
)

// textTemplates renders a plain-text digest of the page data so tests can
// assert on what a real template would show.
type textTemplates struct{}

func (textTemplates) ExecuteTemplate(w io.Writer, name string, data interface{}) error {
	d, _ := data.(map[string]interface{})
	fmt.Fprintf(w, "page:%s\n", name)
	if flashes, ok := d["Flashes"].([]models.Flash); ok {
		for _, f := range flashes {
			fmt.Fprintf(w, "flash:%s:%s\n", f.Category, f.Message)
		}
	}
	if user, ok := d["User"].(*models.User); ok && user != nil {
		fmt.Fprintf(w, "user:%s\n", user.Username)
	}
	if meds, ok := d["Medicines"].([]models.Medicine); ok {
		for _, m := range meds {
			fmt.Fprintf(w, "medicine:%d:%s\n", m.ID, m.Name)
		}
	}
	if alerts, ok := d["Alerts"].([]models.Alert); ok {
		for _, a := range alerts {
			fmt.Fprintf(w, "alert:%s:%s\n", a.Kind, a.Message)
		}
	}
	if m, ok := d["Medicine"].(*models.Medicine); ok {
		fmt.Fprintf(w, "edit:%d:%s:%d\n", m.ID, m.Name, m.Stock)
	}
	if logs, ok := d["Logs"].([]models.AuditLog); ok {
		for _, l := range logs {
			fmt.Fprintf(w, "log:%s:%s:%s\n", l.Username, l.Action, l.Description)
		}
	}
	return nil
}

var fixedToday = time.Date(2026, time.October, 17, 10, 0, 0, 0, time.Local)

type testApp struct {
	t      *testing.T
	srv    *httptest.Server
	client *http.Client
	users  *auth.UserService
	db     *database.DB
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	return newTestAppWithTemplates(t, textTemplates{})
}

func newTestAppWithTemplates(t *testing.T, templates handlers.TemplateExecutor) *testApp {
	t.Helper()
	db, err := database.New(database.DriverSQLite, filepath.Join(t.TempDir(), "apotek.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := logger.Nop()
	users := auth.NewUserService(db)
	inventory := services.NewInventoryService(services.NewMedicineStore(db), services.NewAuditService(db, log))
	inventory.Now = func() time.Time { return fixedToday }

	srv := httptest.NewServer(NewRouter(Deps{
		Templates: templates,
		Sessions:  auth.NewSessionManager("0123456789abcdef0123456789abcdef", 3600, 86400, false),
		Users:     users,
		Inventory: inventory,
		DB:        db,
		Logger:    log,
	}))
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testApp{
		t:   t,
		srv: srv,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		users: users,
		db:    db,
	}
}

func (a *testApp) get(path string) (*http.Response, string) {
	a.t.Helper()
	resp, err := a.client.Get(a.srv.URL + path)
	require.NoError(a.t, err)
	return resp, readBody(a.t, resp)
}

func (a *testApp) post(path string, form url.Values) *http.Response {
	a.t.Helper()
	resp, err := a.client.PostForm(a.srv.URL+path, form)
	require.NoError(a.t, err)
	readBody(a.t, resp)
	return resp
}

func (a *testApp) login(username, password string) {
	a.t.Helper()
	_, err := a.users.Register(context.Background(), username, password)
	require.NoError(a.t, err)
	resp := a.post("/login", url.Values{"username": {username}, "password": {password}})
	require.Equal(a.t, "/obat", resp.Header.Get("Location"))
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func assertRedirect(t *testing.T, resp *http.Response, location string) {
	t.Helper()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, location, resp.Header.Get("Location"))
}

func medicineForm(name, category, stock, price, expiry string) url.Values {
	return url.Values{
		"nama":               {name},
		"kategori":           {category},
		"stok":               {stock},
		"harga":              {price},
		"tanggal_kadaluarsa": {expiry},
	}
}

func TestAnonymousIsSentToLogin(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/obat", "/riwayat", "/edit/1", "/logout"} {
		resp, _ := app.get(path)
		assertRedirect(t, resp, "/login")
	}

	resp := app.post("/tambah", medicineForm("Paracetamol", "Analgesic", "10", "5000", "2026-10-20"))
	assertRedirect(t, resp, "/login")

	_, body := app.get("/login")
	assert.Contains(t, body, "flash:warning:Harap login untuk mengakses halaman ini.")
}

func TestRegisterFlow(t *testing.T) {
	app := newTestApp(t)
	form := url.Values{"username": {"apoteker"}, "password": {"rahasia123"}}

	resp := app.post("/register", form)
	assertRedirect(t, resp, "/login")
	_, body := app.get("/login")
	assert.Contains(t, body, "Akun berhasil dibuat! Silakan login.")

	resp = app.post("/register", form)
	assertRedirect(t, resp, "/register")
	_, body = app.get("/register")
	assert.Contains(t, body, "flash:danger:Username sudah digunakan.")

	count, err := app.users.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestLoginWithWrongPasswordIssuesNoSession(t *testing.T) {
	app := newTestApp(t)
	_, err := app.users.Register(context.Background(), "apoteker", "rahasia123")
	require.NoError(t, err)

	resp := app.post("/login", url.Values{"username": {"apoteker"}, "password": {"salah"}})
	assertRedirect(t, resp, "/login")

	_, body := app.get("/login")
	assert.Contains(t, body, "flash:danger:Username atau password salah.")

	resp, _ = app.get("/obat")
	assertRedirect(t, resp, "/login")
}

func TestLoggedInUserSkipsPublicPages(t *testing.T) {
	app := newTestApp(t)
	app.login("apoteker", "rahasia123")

	for _, path := range []string{"/", "/login", "/register"} {
		resp, _ := app.get(path)
		assertRedirect(t, resp, "/obat")
	}
}

func TestCreateListAndAlerts(t *testing.T) {
	app := newTestApp(t)
	app.login("apoteker", "rahasia123")

	resp := app.post("/tambah", medicineForm("Paracetamol", "Analgesic", "10", "5000.00", "2026-10-20"))
	assertRedirect(t, resp, "/obat")
	resp = app.post("/tambah", medicineForm("Amoxicillin", "Antibiotik", "5", "12000", "2026-10-16"))
	assertRedirect(t, resp, "/obat")

	resp, body := app.get("/obat")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "page:index.html")
	assert.Contains(t, body, "user:apoteker")
	assert.Contains(t, body, "flash:success:Obat 'Amoxicillin' berhasil ditambahkan.")
	assert.Contains(t, body, "alert:EXPIRING_SOON:⚠ Obat 'Paracetamol' akan kadaluarsa dalam 3 hari!")
	assert.Contains(t, body, "alert:EXPIRED:❌ Obat 'Amoxicillin' sudah kadaluarsa!")

	_, body = app.get("/obat?search=PARA")
	assert.Contains(t, body, ":Paracetamol\n")
	assert.NotContains(t, body, ":Amoxicillin\n")

	_, body = app.get("/obat?search=para&kategori=Antibiotik")
	assert.NotContains(t, body, "medicine:")
}

func TestCreateRejectsMissingFields(t *testing.T) {
	app := newTestApp(t)
	app.login("apoteker", "rahasia123")

	resp := app.post("/tambah", medicineForm("Paracetamol", "", "", "5000", ""))
	assertRedirect(t, resp, "/obat")

	_, body := app.get("/obat")
	assert.Contains(t, body, "Kategori wajib diisi")
	assert.Contains(t, body, "Stok wajib diisi")
	assert.NotContains(t, body, "medicine:")
}

func TestEditAndUpdate(t *testing.T) {
	app := newTestApp(t)
	app.login("apoteker", "rahasia123")
	app.post("/tambah", medicineForm("Paracetamol", "Analgesic", "10", "5000", "2027-01-01"))

	_, body := app.get("/edit/1")
	assert.Contains(t, body, "edit:1:Paracetamol:10")

	resp := app.post("/update/1", medicineForm("Paracetamol 500mg", "Analgesic", "20", "5500", "2027-01-01"))
	assertRedirect(t, resp, "/obat")

	_, body = app.get("/edit/1")
	assert.Contains(t, body, "edit:1:Paracetamol 500mg:20")

	resp = app.post("/update/1", medicineForm("Paracetamol", "Analgesic", "-5", "5500", "2027-01-01"))
	assertRedirect(t, resp, "/edit/1")

	resp, _ = app.get("/edit/42")
	assertRedirect(t, resp, "/obat")

	resp, _ = app.get("/edit/abc")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteUnknownMedicineIsAudited(t *testing.T) {
	app := newTestApp(t)
	app.login("apoteker", "rahasia123")

	resp := app.post("/hapus/999", nil)
	assertRedirect(t, resp, "/obat")

	_, body := app.get("/riwayat")
	assert.Equal(t, 1, strings.Count(body, "log:"))
	assert.Contains(t, body, "log:apoteker:Hapus Obat:Menghapus obat: Obat Tidak Dikenal")
}

func TestHistoryNewestFirst(t *testing.T) {
	app := newTestApp(t)
	app.login("apoteker", "rahasia123")

	app.post("/tambah", medicineForm("Paracetamol", "Analgesic", "10", "5000", "2027-01-01"))
	app.post("/update/1", medicineForm("Paracetamol Forte", "Analgesic", "10", "5000", "2027-01-01"))
	app.post("/hapus/1", nil)

	_, body := app.get("/riwayat")
	lines := []string{}
	for _, l := range strings.Split(body, "\n") {
		if strings.HasPrefix(l, "log:") {
			lines = append(lines, l)
		}
	}
	assert.Equal(t, []string{
		"log:apoteker:Hapus Obat:Menghapus obat: Paracetamol Forte",
		"log:apoteker:Edit Obat:Mengubah data obat: Paracetamol Forte",
		"log:apoteker:Tambah Obat:Menambahkan obat baru: Paracetamol",
	}, lines)
}

func TestLogout(t *testing.T) {
	app := newTestApp(t)
	app.login("apoteker", "rahasia123")

	resp, _ := app.get("/logout")
	assertRedirect(t, resp, "/")

	resp, _ = app.get("/obat")
	assertRedirect(t, resp, "/login")
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.get("/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body)
}

func TestPagesRenderWithTemplates(t *testing.T) {
	templates, err := handlers.LoadTemplates("../../web/templates")
	require.NoError(t, err)
	app := newTestAppWithTemplates(t, templates)

	resp, body := app.get("/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "<!DOCTYPE html>")

	app.login("apoteker", "rahasia123")

	resp, body = app.get("/obat")
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Contains(t, body, `action="/tambah"`)
	assert.Contains(t, body, "Tidak ada data obat.")

	resp = app.post("/tambah", medicineForm("Paracetamol", "Analgesic", "10", "5000", "2026-10-20"))
	assertRedirect(t, resp, "/obat")

	resp, body = app.get("/obat?search=para")
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Contains(t, body, "Obat &#39;Paracetamol&#39; berhasil ditambahkan.")
	assert.Contains(t, body, "Rp 5.000,00")
	assert.Contains(t, body, "akan kadaluarsa dalam 3 hari")
	assert.Contains(t, body, `class="expiring"`)

	resp, body = app.get("/edit/1")
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Contains(t, body, `action="/update/1"`)
	assert.Contains(t, body, `value="Paracetamol"`)
	assert.Contains(t, body, `value="2026-10-20"`)

	resp, body = app.get("/riwayat")
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Contains(t, body, "Menambahkan obat baru: Paracetamol")
}
