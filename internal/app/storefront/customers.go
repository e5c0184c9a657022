package storefront

import (
	checkoutdomain "github.com/Apurer/foodio-storefront/internal/domains/checkout/domain"
	checkoutports "github.com/Apurer/foodio-storefront/internal/domains/checkout/ports"
	sessionports "github.com/Apurer/foodio-storefront/internal/domains/session/ports"
)

var _ checkoutports.CustomerLookup = (*SessionCustomers)(nil)

// SessionCustomers reads the checkout customer from the session store. It only reads
// snapshots and never mutates the session.
type SessionCustomers struct {
	sessions sessionports.Service
}

func NewSessionCustomers(sessions sessionports.Service) *SessionCustomers {
	return &SessionCustomers{sessions: sessions}
}

func (s *SessionCustomers) Customer() (checkoutdomain.Customer, bool) {
	if s == nil || s.sessions == nil {
		return checkoutdomain.Customer{}, false
	}
	snapshot := s.sessions.Snapshot()
	if snapshot == nil || !snapshot.IsAuthenticated() {
		return checkoutdomain.Customer{}, false
	}
	return checkoutdomain.Customer{ID: snapshot.Identity.ID, Email: snapshot.Identity.Email}, true
}
