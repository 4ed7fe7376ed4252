// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package authority

import (
	"github.com/pkg/errors"

	"github.com/vechain/accrual/builtin/reverts"
	"github.com/vechain/accrual/builtin/solidity"
	"github.com/vechain/accrual/log"
	"github.com/vechain/accrual/state"
	"github.com/vechain/accrual/thor"
)

var (
	logger = log.WithContext("pkg", "authority")

	slotAdmin  = thor.Blake2b([]byte("admin"))
	slotGrants = thor.Blake2b([]byte("grants"))
)

// Roles is a role table stored in contract state. The admin holds every action.
type Roles struct {
	addr   thor.Address
	admin  *solidity.Address
	grants *solidity.Mapping[thor.Bytes32, bool]
}

func NewRoles(addr thor.Address, st *state.State) *Roles {
	ctx := solidity.NewContext(addr, st)
	return &Roles{
		addr:   addr,
		admin:  solidity.NewAddress(ctx, slotAdmin),
		grants: solidity.NewMapping[thor.Bytes32, bool](ctx, slotGrants),
	}
}

func grantKey(account thor.Address, action Action) thor.Bytes32 {
	return thor.Blake2b(account.Bytes(), []byte(action))
}

// Initialize sets the admin once.
func (r *Roles) Initialize(admin thor.Address) error {
	if admin.IsZero() {
		return reverts.ZeroAddress()
	}
	current, err := r.admin.Get()
	if err != nil {
		return err
	}
	if !current.IsZero() {
		return errors.New("roles already initialized")
	}
	r.admin.Set(&admin)
	return nil
}

func (r *Roles) Admin() (thor.Address, error) {
	return r.admin.Get()
}

func (r *Roles) requireAdmin(caller thor.Address) error {
	admin, err := r.admin.Get()
	if err != nil {
		return err
	}
	if admin.IsZero() || admin != caller {
		return reverts.Unauthorized(caller, "roles.admin")
	}
	return nil
}

// TransferAdmin hands the admin seat to next.
func (r *Roles) TransferAdmin(caller, next thor.Address) error {
	if err := r.requireAdmin(caller); err != nil {
		return err
	}
	if next.IsZero() {
		return reverts.ZeroAddress()
	}
	r.admin.Set(&next)
	return nil
}

func (r *Roles) Grant(caller, account thor.Address, action Action) error {
	if err := r.requireAdmin(caller); err != nil {
		return err
	}
	if account.IsZero() {
		return reverts.ZeroAddress()
	}
	logger.Debug("role granted", "account", account, "action", action)
	return r.grants.Set(grantKey(account, action), true)
}

func (r *Roles) Revoke(caller, account thor.Address, action Action) error {
	if err := r.requireAdmin(caller); err != nil {
		return err
	}
	r.grants.Delete(grantKey(account, action))
	logger.Debug("role revoked", "account", account, "action", action)
	return nil
}

// HasRole reports an explicit grant, ignoring the admin seat.
func (r *Roles) HasRole(account thor.Address, action Action) (bool, error) {
	return r.grants.Get(grantKey(account, action))
}

func (r *Roles) IsAuthorized(caller thor.Address, action Action) bool {
	admin, err := r.admin.Get()
	if err != nil {
		logger.Warn("failed to read admin", "err", err)
		return false
	}
	if !admin.IsZero() && admin == caller {
		return true
	}
	ok, err := r.HasRole(caller, action)
	if err != nil {
		logger.Warn("failed to read role", "account", caller, "action", action, "err", err)
		return false
	}
	return ok
}
