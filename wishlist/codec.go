package wishlist

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Attribute names used in the wishlist table.
const (
	AttrID    = "id"
	AttrName  = "name"
	AttrOwner = "owner"
	AttrItems = "items"
)

// DecodeError is returned when an attribute map cannot be decoded into a Wishlist.
type DecodeError struct {
	// Attribute is the missing or mistyped attribute.
	Attribute string

	// Reason describes what was wrong with it.
	Reason string

	// Err is the underlying unmarshal error, if any.
	Err error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("wishlist: attribute %q %s: %v", e.Attribute, e.Reason, e.Err)
	}
	return fmt.Sprintf("wishlist: attribute %q %s", e.Attribute, e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Key returns the primary key attribute map for the wishlist with the given id.
func Key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		AttrID: &types.AttributeValueMemberS{Value: id},
	}
}

// ToAttributes encodes w as a DynamoDB item. Items are stored as a list of
// strings in their original order; an empty list is stored for no items.
func ToAttributes(w Wishlist) map[string]types.AttributeValue {
	items, err := attributevalue.MarshalList(w.Items)
	if err != nil || items == nil {
		// Empty input yields no list at all; the item needs an explicit L.
		items = make([]types.AttributeValue, 0, len(w.Items))
		for _, item := range w.Items {
			items = append(items, &types.AttributeValueMemberS{Value: item})
		}
	}

	return map[string]types.AttributeValue{
		AttrID:    &types.AttributeValueMemberS{Value: w.ID},
		AttrName:  &types.AttributeValueMemberS{Value: w.Name},
		AttrOwner: &types.AttributeValueMemberS{Value: w.Owner},
		AttrItems: &types.AttributeValueMemberL{Value: items},
	}
}

// FromAttributes decodes a DynamoDB item into a Wishlist.
//
// id, name and owner must be present string attributes. A missing or NULL
// items attribute decodes to an empty list so records written before items
// existed still load.
func FromAttributes(item map[string]types.AttributeValue) (Wishlist, error) {
	var w Wishlist
	var err error

	if w.ID, err = stringAttr(item, AttrID); err != nil {
		return Wishlist{}, err
	}
	if w.Name, err = stringAttr(item, AttrName); err != nil {
		return Wishlist{}, err
	}
	if w.Owner, err = stringAttr(item, AttrOwner); err != nil {
		return Wishlist{}, err
	}
	if w.Items, err = itemsAttr(item); err != nil {
		return Wishlist{}, err
	}
	return w, nil
}

func stringAttr(item map[string]types.AttributeValue, name string) (string, error) {
	av, ok := item[name]
	if !ok || av == nil {
		return "", &DecodeError{Attribute: name, Reason: "is missing"}
	}
	s, ok := av.(*types.AttributeValueMemberS)
	if !ok {
		return "", &DecodeError{Attribute: name, Reason: fmt.Sprintf("must be a string, got %T", av)}
	}
	return s.Value, nil
}

func itemsAttr(item map[string]types.AttributeValue) ([]string, error) {
	av, ok := item[AttrItems]
	if !ok || av == nil {
		return []string{}, nil
	}

	switch v := av.(type) {
	case *types.AttributeValueMemberNULL:
		return []string{}, nil
	case *types.AttributeValueMemberL:
		items := make([]string, 0, len(v.Value))
		for i, elem := range v.Value {
			s, ok := elem.(*types.AttributeValueMemberS)
			if !ok {
				return nil, &DecodeError{
					Attribute: AttrItems,
					Reason:    fmt.Sprintf("element %d must be a string, got %T", i, elem),
				}
			}
			items = append(items, s.Value)
		}
		return items, nil
	case *types.AttributeValueMemberSS:
		// String sets have no order; accepted for tolerance only.
		var items []string
		if err := attributevalue.Unmarshal(v, &items); err != nil {
			return nil, &DecodeError{Attribute: AttrItems, Reason: "could not be decoded", Err: err}
		}
		if items == nil {
			items = []string{}
		}
		return items, nil
	default:
		return nil, &DecodeError{Attribute: AttrItems, Reason: fmt.Sprintf("must be a list of strings, got %T", av)}
	}
}
