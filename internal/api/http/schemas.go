package http

import (
	"github.com/orcafacil/api/internal/domain"
	"github.com/orcafacil/api/internal/validation"
)

// Request schemas, one per route. Address fields travel flat in request
// bodies so each one can carry its own rule; responses nest them back.

// Both the two-letter code and the full state name are accepted.
var brazilianStates = append([]string{
	"AC", "AL", "AP", "AM", "BA", "CE", "DF", "ES", "GO", "MA", "MT", "MS",
	"MG", "PA", "PB", "PR", "PE", "PI", "RJ", "RN", "RS", "RO", "RR", "SC",
	"SP", "SE", "TO",
},
	"Acre", "Alagoas", "Amapá", "Amazonas", "Bahia", "Ceará",
	"Distrito Federal", "Espírito Santo", "Goiás", "Maranhão",
	"Mato Grosso", "Mato Grosso do Sul", "Minas Gerais", "Pará",
	"Paraíba", "Paraná", "Pernambuco", "Piauí", "Rio de Janeiro",
	"Rio Grande do Norte", "Rio Grande do Sul", "Rondônia", "Roraima",
	"Santa Catarina", "São Paulo", "Sergipe", "Tocantins",
)

var (
	zipPattern   = validation.MustPattern(`^\d{5}-?\d{3}$`)
	taxIDPattern = validation.MustPattern(`^[\d./-]{11,18}$`)
)

func addressFields() []validation.Field {
	return []validation.Field{
		{Key: "street", Label: "rua", MaxLen: 200},
		{Key: "number", Label: "número", MaxLen: 20},
		{Key: "complement", Label: "complemento", MaxLen: 200},
		{Key: "neighborhood", Label: "bairro", MaxLen: 120},
		{Key: "zip_code", Label: "CEP", Pattern: zipPattern},
		{Key: "city", Label: "cidade", MaxLen: 120},
		{Key: "state", Label: "estado", Enum: brazilianStates},
	}
}

var idParam = []validation.Field{
	{Key: "id", Label: "id", Required: true, MinLen: 1},
}

var registerSchema = validation.Schema{
	Body: append([]validation.Field{
		{Key: "email", Label: "e-mail", Required: true, Type: validation.TypeEmail},
		{Key: "password", Label: "senha", Required: true, MinLen: 8, MaxLen: 72},
		{Key: "name", Label: "nome", Required: true, MinLen: 1, MaxLen: 120},
		{Key: "phone", Label: "telefone", MaxLen: 20},
	}, addressFields()...),
}

var confirmSchema = validation.Schema{
	Query: []validation.Field{
		{Key: "token", Label: "token", Required: true, MinLen: 1},
	},
}

var loginSchema = validation.Schema{
	Body: []validation.Field{
		{Key: "email", Label: "e-mail", Required: true, Type: validation.TypeEmail},
		{Key: "password", Label: "senha", Required: true, MinLen: 1},
	},
}

var recoverSchema = validation.Schema{
	Body: []validation.Field{
		{Key: "email", Label: "e-mail", Required: true, Type: validation.TypeEmail},
	},
}

var resetSchema = validation.Schema{
	Body: []validation.Field{
		{Key: "token", Label: "token", Required: true, MinLen: 1},
		{Key: "password", Label: "senha", Required: true, MinLen: 8, MaxLen: 72},
	},
}

var accountPatchSchema = validation.Schema{
	Body: append([]validation.Field{
		{Key: "updated_at", Label: "atualizado em", Required: true, Type: validation.TypeTime},
		{Key: "name", Label: "nome", MinLen: 1, MaxLen: 120},
		{Key: "phone", Label: "telefone", MaxLen: 20},
	}, addressFields()...),
}

var changePasswordSchema = validation.Schema{
	Body: []validation.Field{
		{Key: "current_password", Label: "senha atual", Required: true, MinLen: 1},
		{Key: "new_password", Label: "nova senha", Required: true, MinLen: 8, MaxLen: 72},
	},
}

var customerBodyFields = append([]validation.Field{
	{Key: "name", Label: "nome", Required: true, MinLen: 2, MaxLen: 120},
	{Key: "tax_id", Label: "CPF/CNPJ", Pattern: taxIDPattern},
}, addressFields()...)

var customerWriteSchema = validation.Schema{
	Body: customerBodyFields,
}

var customerReplaceSchema = validation.Schema{
	Params: idParam,
	Body:   customerBodyFields,
}

var customerPatchSchema = validation.Schema{
	Params: idParam,
	Body: append([]validation.Field{
		{Key: "updated_at", Label: "atualizado em", Required: true, Type: validation.TypeTime},
		{Key: "name", Label: "nome", MinLen: 2, MaxLen: 120},
		{Key: "tax_id", Label: "CPF/CNPJ", Pattern: taxIDPattern},
	}, addressFields()...),
}

var invoiceCreateSchema = validation.Schema{
	Body: []validation.Field{
		{Key: "customer_id", Label: "cliente", Required: true, MinLen: 1},
		{Key: "date", Label: "data", Required: true, Type: validation.TypeTime},
		{Key: "description", Label: "descrição", MaxLen: 2000},
		{Key: "labor", Label: "mão de obra", Type: validation.TypeArray},
		{Key: "material_ids", Label: "materiais", Type: validation.TypeArray},
		{Key: "equipment_ids", Label: "equipamentos", Type: validation.TypeArray},
		{Key: "addition", Label: "acréscimo", Type: validation.TypeNumber, Min: validation.Float(0)},
		{Key: "discount", Label: "desconto", Type: validation.TypeNumber, Min: validation.Float(0)},
		{Key: "property_type", Label: "tipo de imóvel", Required: true, Enum: domain.PropertyTypes},
	},
}

// The customer reference is immutable, so it is deliberately undeclared here;
// the closed body rejects any attempt to patch it.
var invoicePatchSchema = validation.Schema{
	Params: idParam,
	Body: []validation.Field{
		{Key: "updated_at", Label: "atualizado em", Required: true, Type: validation.TypeTime},
		{Key: "date", Label: "data", Type: validation.TypeTime},
		{Key: "description", Label: "descrição", MaxLen: 2000},
		{Key: "labor", Label: "mão de obra", Type: validation.TypeArray},
		{Key: "material_ids", Label: "materiais", Type: validation.TypeArray},
		{Key: "equipment_ids", Label: "equipamentos", Type: validation.TypeArray},
		{Key: "addition", Label: "acréscimo", Type: validation.TypeNumber, Min: validation.Float(0)},
		{Key: "discount", Label: "desconto", Type: validation.TypeNumber, Min: validation.Float(0)},
		{Key: "property_type", Label: "tipo de imóvel", Enum: domain.PropertyTypes},
	},
}

var materialCreateSchema = validation.Schema{
	Body: []validation.Field{
		{Key: "name", Label: "nome", Required: true, MinLen: 1, MaxLen: 120},
		{Key: "description", Label: "descrição", MaxLen: 2000},
		{Key: "price", Label: "preço", Type: validation.TypeNumber, Min: validation.Float(0)},
		{Key: "count", Label: "quantidade", Type: validation.TypeInteger, Min: validation.Float(0)},
		{Key: "icon", Label: "ícone", MaxLen: 60},
		{Key: "modifier", Label: "unidade", MaxLen: 60},
	},
}

var materialPatchSchema = validation.Schema{
	Params: idParam,
	Body: []validation.Field{
		{Key: "updated_at", Label: "atualizado em", Required: true, Type: validation.TypeTime},
		{Key: "name", Label: "nome", MinLen: 1, MaxLen: 120},
		{Key: "description", Label: "descrição", MaxLen: 2000},
		{Key: "price", Label: "preço", Type: validation.TypeNumber, Min: validation.Float(0)},
		{Key: "count", Label: "quantidade", Type: validation.TypeInteger, Min: validation.Float(0)},
		{Key: "icon", Label: "ícone", MaxLen: 60},
		{Key: "modifier", Label: "unidade", MaxLen: 60},
	},
}

var materialBulkPatchSchema = validation.Schema{
	Body: []validation.Field{
		{Key: "items", Label: "itens", Required: true, Type: validation.TypeArray},
	},
}

var equipmentCreateSchema = validation.Schema{
	Body: []validation.Field{
		{Key: "name", Label: "nome", Required: true, MinLen: 1, MaxLen: 120},
		{Key: "description", Label: "descrição", MaxLen: 2000},
		{Key: "price", Label: "preço", Type: validation.TypeNumber, Min: validation.Float(0)},
		{Key: "count", Label: "quantidade", Type: validation.TypeInteger, Min: validation.Float(0)},
	},
}

var equipmentPatchSchema = validation.Schema{
	Params: idParam,
	Body: []validation.Field{
		{Key: "updated_at", Label: "atualizado em", Required: true, Type: validation.TypeTime},
		{Key: "name", Label: "nome", MinLen: 1, MaxLen: 120},
		{Key: "description", Label: "descrição", MaxLen: 2000},
		{Key: "price", Label: "preço", Type: validation.TypeNumber, Min: validation.Float(0)},
		{Key: "count", Label: "quantidade", Type: validation.TypeInteger, Min: validation.Float(0)},
	},
}

var idOnlySchema = validation.Schema{Params: idParam}
