package api

import (
	"errors"
	"testing"

	"shop_api/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const createOrderMutation = `mutation($token: String!) {
	createOrder(token: $token) { id total charge user { id } items { title price quantity } }
}`

type orderData struct {
	ID     string
	Total  int
	Charge string
	User   struct{ ID string }
	Items  []struct {
		Title    string
		Price    int
		Quantity int
	}
}

func fillCart(env *testEnv, user *domain.User, items ...*domain.Item) {
	for _, it := range items {
		env.mustExec(user, addToCartMutation, map[string]interface{}{"id": it.ID}, nil)
	}
}

func cartSize(env *testEnv, user *domain.User) int {
	var me struct{ Me struct{ Cart []struct{ ID string } } }
	env.mustExec(user, `{ me { cart { id } } }`, nil, &me)
	return len(me.Me.Cart)
}

func TestCreateOrder(t *testing.T) {
	env := newTestEnv(t)
	seller := env.user("seller@example.com")
	buyer := env.user("buyer@example.com")
	boots := env.item(seller, "Boots", 5000)
	socks := env.item(seller, "Socks", 750)
	fillCart(env, buyer, boots, boots, socks)

	var data struct{ CreateOrder orderData }
	env.mustExec(buyer, createOrderMutation, map[string]interface{}{"token": "tok_visa"}, &data)

	order := data.CreateOrder
	assert.Equal(t, 2*5000+750, order.Total, "total is computed from the cart")
	assert.Equal(t, "ch_test_1", order.Charge)
	assert.Equal(t, buyer.ID, order.User.ID)
	require.Len(t, order.Items, 2)
	assert.ElementsMatch(t, []string{"Boots", "Socks"}, []string{order.Items[0].Title, order.Items[1].Title})

	require.Len(t, env.gateway.calls, 1)
	call := env.gateway.calls[0]
	assert.Equal(t, int64(order.Total), call.Amount)
	assert.Equal(t, "usd", call.Currency)
	assert.Equal(t, "tok_visa", call.Token)
	assert.Equal(t, order.ID, call.OrderRef)
	assert.Equal(t, "buyer@example.com", call.Email)

	assert.Zero(t, cartSize(env, buyer), "cart is cleared")

	t.Run("snapshot survives item edits", func(t *testing.T) {
		env.mustExec(seller, updateItemMutation, map[string]interface{}{"id": boots.ID, "price": 1}, nil)

		var got struct{ Order orderData }
		env.mustExec(buyer, `query($id: ID!) { order(id: $id) { id total items { title price quantity } } }`,
			map[string]interface{}{"id": order.ID}, &got)
		assert.Equal(t, order.Total, got.Order.Total)
		for _, line := range got.Order.Items {
			if line.Title == "Boots" {
				assert.Equal(t, 5000, line.Price)
				assert.Equal(t, 2, line.Quantity)
			}
		}
	})
}

func TestCreateOrder_Failures(t *testing.T) {
	env := newTestEnv(t)
	seller := env.user("seller@example.com")
	buyer := env.user("buyer@example.com")
	boots := env.item(seller, "Boots", 5000)
	vars := map[string]interface{}{"token": "tok_visa"}

	t.Run("anonymous", func(t *testing.T) {
		resp, _ := env.exec(nil, createOrderMutation, vars)
		assert.Equal(t, domain.EUNAUTHENTICATED, errorCode(t, resp))
	})

	t.Run("empty cart", func(t *testing.T) {
		resp, _ := env.exec(buyer, createOrderMutation, vars)
		assert.Equal(t, domain.EVALIDATION, errorCode(t, resp))
		assert.Equal(t, "Your cart is empty!", resp.Errors[0].Message)
		assert.Empty(t, env.gateway.calls)
	})

	t.Run("total beyond the Int range", func(t *testing.T) {
		big := env.item(seller, "Yacht", 2_000_000_000)
		other := env.user("other@example.com")
		fillCart(env, other, big, big)

		resp, _ := env.exec(other, createOrderMutation, vars)
		assert.Equal(t, domain.EVALIDATION, errorCode(t, resp))
		assert.Equal(t, "Your order total exceeds the maximum of 2147483647", resp.Errors[0].Message)
		assert.Empty(t, env.gateway.calls, "nothing is charged")
		assert.Equal(t, 1, cartSize(env, other))
	})

	t.Run("declined charge keeps the cart", func(t *testing.T) {
		fillCart(env, buyer, boots)
		env.gateway.err = errors.New("card_declined")
		defer func() { env.gateway.err = nil }()

		resp, _ := env.exec(buyer, createOrderMutation, vars)
		assert.Equal(t, domain.EPAYMENT, errorCode(t, resp))
		assert.Equal(t, 1, cartSize(env, buyer))

		var orders struct{ Orders []struct{ ID string } }
		env.mustExec(buyer, `{ orders { id } }`, nil, &orders)
		assert.Empty(t, orders.Orders)
	})
}

func TestOrderQueries(t *testing.T) {
	env := newTestEnv(t)
	seller := env.user("seller@example.com")
	buyer := env.user("buyer@example.com")
	stranger := env.user("stranger@example.com")
	admin := env.user("admin@example.com", domain.PermissionAdmin)
	boots := env.item(seller, "Boots", 5000)

	var ids []string
	for i := 0; i < 2; i++ {
		fillCart(env, buyer, boots)
		var data struct{ CreateOrder orderData }
		env.mustExec(buyer, createOrderMutation, map[string]interface{}{"token": "tok_visa"}, &data)
		ids = append(ids, data.CreateOrder.ID)
	}

	const orderQuery = `query($id: ID!) { order(id: $id) { id } }`
	vars := map[string]interface{}{"id": ids[0]}

	t.Run("owner", func(t *testing.T) {
		var data struct{ Order struct{ ID string } }
		env.mustExec(buyer, orderQuery, vars, &data)
		assert.Equal(t, ids[0], data.Order.ID)
	})

	t.Run("stranger", func(t *testing.T) {
		resp, _ := env.exec(stranger, orderQuery, vars)
		assert.Equal(t, domain.EFORBIDDEN, errorCode(t, resp))
	})

	t.Run("admin", func(t *testing.T) {
		var data struct{ Order struct{ ID string } }
		env.mustExec(admin, orderQuery, vars, &data)
		assert.Equal(t, ids[0], data.Order.ID)
	})

	t.Run("missing", func(t *testing.T) {
		resp, _ := env.exec(buyer, orderQuery, map[string]interface{}{"id": "missing"})
		assert.Equal(t, domain.ENOTFOUND, errorCode(t, resp))
	})

	t.Run("orders lists only the caller's", func(t *testing.T) {
		var data struct {
			Orders []struct{ ID, CreatedAt string }
		}
		env.mustExec(buyer, `{ orders { id createdAt } }`, nil, &data)
		require.Len(t, data.Orders, 2)
		assert.ElementsMatch(t, ids, []string{data.Orders[0].ID, data.Orders[1].ID})
		assert.GreaterOrEqual(t, data.Orders[0].CreatedAt, data.Orders[1].CreatedAt, "newest first")

		env.mustExec(stranger, `{ orders { id createdAt } }`, nil, &data)
		assert.Empty(t, data.Orders)
	})
}
