// Package model holds the GORM persistence models. They are mapped to and from
// domain entities by the postgres repositories and fed to GORM Gen by cmd/gen.
package model

// All lists every model in dependency order.
func All() []any {
	return []any{
		&UserModel{},
		&RefreshTokenModel{},
		&DeviceModel{},
		&CategoryModel{},
		&ProductModel{},
		&OrderModel{},
		&OrderItemModel{},
	}
}
