package api

import (
	"testing"

	"shop_api/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const addToCartMutation = `mutation($id: ID!) { addToCart(id: $id) { id quantity item { id title } user { id } } }`

type cartItemData struct {
	ID       string
	Quantity int
	Item     *struct{ ID, Title string }
	User     struct{ ID string }
}

func TestAddToCart(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user("alice@example.com")
	lamp := env.item(alice, "Lamp", 300)
	vars := map[string]interface{}{"id": lamp.ID}

	var first, second struct{ AddToCart cartItemData }
	env.mustExec(alice, addToCartMutation, vars, &first)
	env.mustExec(alice, addToCartMutation, vars, &second)

	assert.Equal(t, 1, first.AddToCart.Quantity)
	assert.Equal(t, 2, second.AddToCart.Quantity)
	assert.Equal(t, first.AddToCart.ID, second.AddToCart.ID, "one row per user and item")
	require.NotNil(t, second.AddToCart.Item)
	assert.Equal(t, "Lamp", second.AddToCart.Item.Title)
	assert.Equal(t, alice.ID, second.AddToCart.User.ID)

	var me struct {
		Me struct {
			Cart []struct {
				Quantity int
				Item     struct{ Price int }
			}
		}
	}
	env.mustExec(alice, `{ me { cart { quantity item { price } } } }`, nil, &me)
	require.Len(t, me.Me.Cart, 1)
	assert.Equal(t, 2, me.Me.Cart[0].Quantity)
	assert.Equal(t, 300, me.Me.Cart[0].Item.Price)
}

func TestAddToCart_Failures(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user("alice@example.com")
	lamp := env.item(alice, "Lamp", 300)

	resp, _ := env.exec(nil, addToCartMutation, map[string]interface{}{"id": lamp.ID})
	assert.Equal(t, domain.EUNAUTHENTICATED, errorCode(t, resp))

	resp, _ = env.exec(alice, addToCartMutation, map[string]interface{}{"id": "missing"})
	assert.Equal(t, domain.ENOTFOUND, errorCode(t, resp))
	assert.Equal(t, "No item found for ID missing", resp.Errors[0].Message)
}

func TestRemoveFromCart(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user("alice@example.com")
	bob := env.user("bob@example.com")
	lamp := env.item(alice, "Lamp", 300)

	var added struct{ AddToCart cartItemData }
	env.mustExec(alice, addToCartMutation, map[string]interface{}{"id": lamp.ID}, &added)

	const remove = `mutation($id: ID!) { removeFromCart(id: $id) { id } }`
	vars := map[string]interface{}{"id": added.AddToCart.ID}

	t.Run("other user", func(t *testing.T) {
		resp, _ := env.exec(bob, remove, vars)
		assert.Equal(t, domain.EFORBIDDEN, errorCode(t, resp))
		assert.Equal(t, "You do not own this cart item!", resp.Errors[0].Message)
	})

	t.Run("anonymous", func(t *testing.T) {
		resp, _ := env.exec(nil, remove, vars)
		assert.Equal(t, domain.EUNAUTHENTICATED, errorCode(t, resp))
	})

	t.Run("owner", func(t *testing.T) {
		var data struct{ RemoveFromCart struct{ ID string } }
		env.mustExec(alice, remove, vars, &data)
		assert.Equal(t, added.AddToCart.ID, data.RemoveFromCart.ID)

		var me struct{ Me struct{ Cart []struct{ ID string } } }
		env.mustExec(alice, `{ me { cart { id } } }`, nil, &me)
		assert.Empty(t, me.Me.Cart)
	})

	t.Run("already removed", func(t *testing.T) {
		resp, _ := env.exec(alice, remove, vars)
		assert.Equal(t, domain.ENOTFOUND, errorCode(t, resp))
		assert.Equal(t, "No CartItem Found!", resp.Errors[0].Message)
	})
}
