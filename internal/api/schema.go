package api

import (
	"context" // Panic logging

	"github.com/graph-gophers/graphql-go" // Schema execution
	"github.com/sirupsen/logrus"          // Logging
)

// Schema is the public GraphQL surface
const Schema = `
schema {
	query: Query
	mutation: Mutation
}

enum Permission {
	ADMIN
	USER
	ITEMCREATE
	ITEMUPDATE
	ITEMDELETE
	PERMISSIONUPDATE
}

enum ItemOrderByInput {
	createdAt_ASC
	createdAt_DESC
	price_ASC
	price_DESC
	title_ASC
	title_DESC
}

type SuccessMessage {
	message: String!
}

type User {
	id: ID!
	name: String!
	email: String!
	permissions: [Permission!]!
	cart: [CartItem!]!
	orders: [Order!]!
}

type Item {
	id: ID!
	title: String!
	description: String!
	image: String
	largeImage: String
	price: Int!
	user: User
	createdAt: String!
	updatedAt: String!
}

type CartItem {
	id: ID!
	quantity: Int!
	item: Item
	user: User!
}

type OrderItem {
	id: ID!
	title: String!
	description: String!
	image: String
	largeImage: String
	price: Int!
	quantity: Int!
}

type Order {
	id: ID!
	items: [OrderItem!]!
	total: Int!
	user: User!
	charge: String!
	createdAt: String!
	updatedAt: String!
}

type PageInfo {
	hasNextPage: Boolean!
	hasPreviousPage: Boolean!
}

type AggregateItem {
	count: Int!
}

type ItemConnection {
	pageInfo: PageInfo!
	aggregate: AggregateItem!
}

input ItemWhereInput {
	search: String
}

input ItemWhereUniqueInput {
	id: ID!
}

type Query {
	items(where: ItemWhereInput, orderBy: ItemOrderByInput, skip: Int, first: Int): [Item!]!
	item(where: ItemWhereUniqueInput!): Item
	itemsConnection(where: ItemWhereInput, skip: Int, first: Int): ItemConnection!
	me: User
	users: [User!]!
	order(id: ID!): Order
	orders: [Order!]!
}

type Mutation {
	createItem(title: String!, description: String!, price: Int!, image: String, largeImage: String): Item!
	updateItem(id: ID!, title: String, description: String, price: Int, image: String, largeImage: String): Item!
	deleteItem(id: ID!): Item
	signup(email: String!, password: String!, name: String!): User!
	signin(email: String!, password: String!): User!
	signout: SuccessMessage!
	requestReset(email: String!): SuccessMessage!
	resetPassword(resetToken: String!, password: String!, confirmPassword: String!): User!
	updatePermissions(permissions: [Permission!]!, userId: ID!): User!
	addToCart(id: ID!): CartItem!
	removeFromCart(id: ID!): CartItem
	createOrder(token: String!): Order!
}
`

// maxQueryDepth bounds nested selections such as item.user.orders.items
const maxQueryDepth = 8

// panicLogger routes resolver panics to logrus
type panicLogger struct{}

func (panicLogger) LogPanic(_ context.Context, value interface{}) {
	logrus.WithField("panic", value).Error("GraphQL resolver panicked")
}

// NewSchema parses Schema against the root resolver
func NewSchema(r *Resolver) (*graphql.Schema, error) {
	return graphql.ParseSchema(Schema, r,
		graphql.MaxDepth(maxQueryDepth),
		graphql.Logger(panicLogger{}),
	)
}
