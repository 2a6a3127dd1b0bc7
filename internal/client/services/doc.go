// Package services contains the application services of the storefront
// client.
//
// SessionCoordinator owns the answer to "am I signed in, as whom, and has
// the server confirmed it". It keeps the persisted credential store, its own
// in-memory cache and the API client's bearer token consistent, runs the
// background profile sync, and applies the guard redirects through a
// guard.Navigator.
//
// Decision transitions:
//
//	Unauthenticated     --Initialize(stored session)--> AuthenticatedLocal
//	Unauthenticated     --Login ok-->                   AuthenticatedLocal
//	AuthenticatedLocal  --Sync ok-->                    AuthenticatedSynced
//	any                 --Logout / Login failure-->     Unauthenticated
//	authenticated       --401 outside sync-->           Unauthenticated
//
// A failed sync never changes the decision.
//
// CartService derives the cart badge from the coordinator's decision.
package services
