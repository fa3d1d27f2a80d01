// Package entitlement holds the pure arithmetic that keeps a user's website
// quota consistent across plan changes and add-on purchases.
//
// The invariant maintained by callers is:
//
//	websiteLimit == baseEntitlement(planType) + additionalPurchased
//
// The calculator never lowers a result below the target plan's base
// entitlement and never returns negative add-on counts.
package entitlement
