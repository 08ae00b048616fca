package memory

import (
	"sort"
	"sync"

	"github.com/tdorado/ligabot/internal/account"
)

// Repository holds the live accounts and the chat-to-account sign-in
// bindings. It is the single in-process source of truth; the file store only
// sees it at load and save time.
type Repository struct {
	accounts map[string]account.Account
	sessions map[int64]string // chat ID -> account name
	mu       sync.RWMutex
}

func NewRepository() *Repository {
	return &Repository{
		accounts: make(map[string]account.Account),
		sessions: make(map[int64]string),
	}
}

// Replace swaps in a freshly loaded account set, dropping all sessions.
func (r *Repository) Replace(accounts []account.Account) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts = make(map[string]account.Account, len(accounts))
	for _, a := range accounts {
		r.accounts[a.Name()] = a
	}
	r.sessions = make(map[int64]string)
}

// SaveAccount registers or overwrites an account by name.
func (r *Repository) SaveAccount(a account.Account) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[a.Name()] = a
}

// GetAccount looks up an account by name.
func (r *Repository) GetAccount(name string) (account.Account, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[name]
	return a, ok
}

// Accounts returns every account sorted by name.
func (r *Repository) Accounts() []account.Account {
	r.mu.RLock()
	defer r.mu.RUnlock()
	accounts := make([]account.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		accounts = append(accounts, a)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Name() < accounts[j].Name() })
	return accounts
}

// Administrators returns every administrator account sorted by name.
func (r *Repository) Administrators() []*account.Administrator {
	r.mu.RLock()
	defer r.mu.RUnlock()
	admins := make([]*account.Administrator, 0)
	for _, a := range r.accounts {
		if admin, ok := a.(*account.Administrator); ok {
			admins = append(admins, admin)
		}
	}
	sort.Slice(admins, func(i, j int) bool { return admins[i].Name() < admins[j].Name() })
	return admins
}

// Bind signs a chat in as an account.
func (r *Repository) Bind(chatID int64, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[chatID] = name
}

// SignedAccount returns the account a chat is signed in as.
func (r *Repository) SignedAccount(chatID int64) (account.Account, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.sessions[chatID]
	if !ok {
		return nil, false
	}
	a, ok := r.accounts[name]
	return a, ok
}
