package java

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/umlgen/compiler/gen"
	"github.com/syssam/umlgen/dialect"
	"github.com/syssam/umlgen/schema"
	"github.com/syssam/umlgen/schema/field"
)

const src = "src/main/java/com/acme/shop"

func shop(t *testing.T, opts ...gen.Option) *gen.Project {
	t.Helper()
	opts = append([]gen.Option{
		gen.WithBasePackage("com.acme.shop"),
		gen.WithArtifactID("shop-app"),
		gen.WithGenerator(New()),
	}, opts...)
	c, err := gen.NewConfig(opts...)
	require.NoError(t, err)
	g, err := gen.NewGraph(c, &schema.Schema{
		Classes: []*schema.Class{
			{
				ID:   "c",
				Name: "customer",
				Attributes: []*schema.Attribute{
					{Name: "id", Type: "int"},
					{Name: "active", Type: "bool"},
				},
				Methods: []*schema.Method{
					{Name: "score", ReturnType: "long", Parameters: "since:int"},
					{Name: "ratio", ReturnType: "float"},
					{Name: "touch"},
				},
			},
			{ID: "o", Name: "order", Attributes: []*schema.Attribute{{Name: "number", Type: "string"}}},
			{ID: "p", Name: "person", Attributes: []*schema.Attribute{{Name: "id", Type: "int"}}},
			{ID: "e", Name: "employee", Attributes: []*schema.Attribute{{Name: "salary", Type: "double"}}},
			{ID: "n", Name: "note", Attributes: []*schema.Attribute{{Name: "weight", Type: "double"}}},
			{ID: "a", Name: "address", Attributes: []*schema.Attribute{{Name: "id", Type: "int"}}},
			{ID: "t", Name: "tag", Attributes: []*schema.Attribute{{Name: "label", Type: "string"}}},
		},
		Relationships: []*schema.Relationship{
			{ID: "r1", Kind: schema.Association, SourceID: "c", TargetID: "o", Labels: []string{"1", "*"}},
			{ID: "r2", Kind: schema.Generalization, SourceID: "e", TargetID: "p"},
			{ID: "r3", Kind: schema.Composition, SourceID: "c", TargetID: "a", Labels: []string{"1", "1"}},
			{ID: "r4", Kind: schema.Association, SourceID: "o", TargetID: "t", Labels: []string{"*", "*"}},
			{ID: "r5", Kind: schema.Association, SourceID: "o", TargetID: "n", Labels: []string{"*", "1"}},
		},
	})
	require.NoError(t, err)
	p, err := g.Gen(context.Background())
	require.NoError(t, err)
	return p
}

func content(t *testing.T, p *gen.Project, name string) string {
	t.Helper()
	f := p.File(name)
	require.NotNil(t, f, "missing file %s in %v", name, p.Paths())
	return string(f.Content)
}

func TestGenerator_Layout(t *testing.T) {
	p := shop(t)

	assert.Equal(t, "shop-app.zip", p.ArchiveName())
	for _, name := range []string{
		"pom.xml",
		"src/main/resources/application.properties",
		"src/main/resources/db/schema.sql",
		src + "/ShopAppApplication.java",
		src + "/model/Customer.java",
		src + "/repository/CustomerRepository.java",
		src + "/service/CustomerService.java",
		src + "/controller/CustomerController.java",
		src + "/controller/EmployeeController.java",
		src + "/model/Note.java",
	} {
		assert.NotNil(t, p.File(name), name)
	}
	assert.Nil(t, p.File(src+"/repository/NoteRepository.java"), "keyless types have no persistence layer")
	assert.Nil(t, p.File("src/main/resources/graphql/schema.graphqls"))
}

func TestGenerator_Entity(t *testing.T) {
	p := shop(t)

	t.Run("keys and fields", func(t *testing.T) {
		c := content(t, p, src+"/model/Customer.java")
		assert.Contains(t, c, "package com.acme.shop.model;")
		assert.Contains(t, c, "// Code generated by umlgen. DO NOT EDIT.")
		assert.Contains(t, c, "@Entity\n@Table(name = \"customers\")\npublic class Customer {")
		assert.Contains(t, c, "    @Id\n    @GeneratedValue(strategy = GenerationType.IDENTITY)\n    @Column(name = \"id\")\n    private Long id;")
		assert.Contains(t, c, "public Boolean isActive() {")
		assert.Contains(t, c, "public void setActive(Boolean active) {")
	})

	t.Run("associations", func(t *testing.T) {
		c := content(t, p, src+"/model/Customer.java")
		assert.Contains(t, c, "@OneToMany(mappedBy = \"customer\")\n    private List<Order> orders = new ArrayList<>();")
		assert.Contains(t, c, "@OneToOne(cascade = CascadeType.ALL, orphanRemoval = true)")
		assert.Contains(t, c, "@OnDelete(action = OnDeleteAction.CASCADE)")
		assert.Contains(t, c, "import org.hibernate.annotations.OnDelete;")

		o := content(t, p, src+"/model/Order.java")
		assert.Contains(t, o, "@ManyToOne\n    @JoinColumn(name = \"customer_id\")\n    private Customer customer;")
		assert.Contains(t, o, "@Id\n    @Column(name = \"number\")\n    private String number;")
		assert.Contains(t, o, "name = \"order_tag\"")
		assert.Contains(t, o, "joinColumns = @JoinColumn(name = \"order_id\")")
		assert.Contains(t, o, "@Transient\n    private Note note;")

		tag := content(t, p, src+"/model/Tag.java")
		assert.Contains(t, tag, "@ManyToMany(mappedBy = \"tags\")\n    private List<Order> orders = new ArrayList<>();")
		assert.NotContains(t, tag, "@JoinTable")
	})

	t.Run("inheritance", func(t *testing.T) {
		person := content(t, p, src+"/model/Person.java")
		assert.Contains(t, person, "@Inheritance(strategy = InheritanceType.JOINED)")

		e := content(t, p, src+"/model/Employee.java")
		assert.Contains(t, e, "@PrimaryKeyJoinColumn(name = \"id\")\npublic class Employee extends Person {")
		assert.NotContains(t, e, "@Id")
		assert.Contains(t, content(t, p, src+"/repository/EmployeeRepository.java"), "JpaRepository<Employee, Long>")
	})

	t.Run("keyless", func(t *testing.T) {
		n := content(t, p, src+"/model/Note.java")
		assert.NotContains(t, n, "@Entity")
		assert.Contains(t, n, "public class Note {")
		assert.Contains(t, n, "@Transient")
	})

	t.Run("methods", func(t *testing.T) {
		c := content(t, p, src+"/model/Customer.java")
		assert.Contains(t, c, "public Long score(Integer since) {\n        // TODO: implement\n        return 0L;\n    }")
		assert.Contains(t, c, "return 0.0f;")
		assert.Contains(t, c, "public void touch() {\n        // TODO: implement\n    }")
	})
}

func TestGenerator_Layers(t *testing.T) {
	p := shop(t)

	r := content(t, p, src+"/repository/OrderRepository.java")
	assert.Contains(t, r, "public interface OrderRepository extends JpaRepository<Order, String> {")

	s := content(t, p, src+"/service/OrderService.java")
	assert.Contains(t, s, "public Optional<Order> findById(String id) {")
	assert.Contains(t, s, "entity.setNumber(id);")

	c := content(t, p, src+"/controller/CustomerController.java")
	assert.Contains(t, c, "@RequestMapping(\"/api/customer\")")
	assert.Contains(t, c, "public ResponseEntity<Customer> get(@PathVariable Long id) {")
	assert.Contains(t, c, "@DeleteMapping(\"/{id}\")")
}

func TestGenerator_Project(t *testing.T) {
	t.Run("postgres", func(t *testing.T) {
		p := shop(t)

		pom := content(t, p, "pom.xml")
		assert.Contains(t, pom, "<groupId>com.example</groupId>")
		assert.Contains(t, pom, "<artifactId>shop-app</artifactId>")
		assert.Contains(t, pom, "<artifactId>postgresql</artifactId>")
		assert.NotContains(t, pom, "spring-boot-starter-graphql")

		app := content(t, p, src+"/ShopAppApplication.java")
		assert.Contains(t, app, "package com.acme.shop;")
		assert.Contains(t, app, "SpringApplication.run(ShopAppApplication.class, args);")

		props := content(t, p, "src/main/resources/application.properties")
		assert.Contains(t, props, "server.port=${SERVER_PORT:9000}")
		assert.Contains(t, props, "spring.datasource.url=${DB_URL:jdbc:postgresql://${DB_HOST:localhost}:${DB_PORT:5432}/${DB_NAME:app}}")
		assert.Contains(t, props, "spring.datasource.password=${DB_PASSWORD:}")
		assert.Contains(t, props, "# Code generated by umlgen. DO NOT EDIT.")

		ddl := content(t, p, "src/main/resources/db/schema.sql")
		assert.Contains(t, ddl, "-- Code generated by umlgen. DO NOT EDIT.")
		assert.Contains(t, ddl, "CREATE TABLE")
	})

	t.Run("sqlite", func(t *testing.T) {
		p := shop(t, gen.WithDialect(dialect.SQLite))

		props := content(t, p, "src/main/resources/application.properties")
		assert.Contains(t, props, "jdbc:sqlite:${DB_NAME:app.db}")
		assert.NotContains(t, props, "spring.datasource.password")
		assert.Contains(t, content(t, p, "pom.xml"), "hibernate-community-dialects")
	})

	t.Run("features", func(t *testing.T) {
		p := shop(t, gen.WithFeatures(gen.FeatureGraphQL), gen.WithoutFeatures(gen.FeatureDDL.Name, gen.FeatureMethods.Name))

		assert.Nil(t, p.File("src/main/resources/db/schema.sql"))
		assert.Contains(t, content(t, p, "pom.xml"), "spring-boot-starter-graphql")
		assert.Contains(t, content(t, p, "src/main/resources/graphql/schema.graphqls"), "type Customer")
		assert.NotContains(t, content(t, p, src+"/model/Customer.java"), "score(")
	})
}

func TestLiteral(t *testing.T) {
	tests := []struct {
		ret  field.Type
		want string
	}{
		{field.Long, "0L"},
		{field.Integer, "0"},
		{field.Short, "0"},
		{field.Float, "0.0f"},
		{field.Double, "0.0"},
		{field.Boolean, "false"},
		{field.Character, `'\u0000'`},
		{field.String, "null"},
	}
	for _, tt := range tests {
		t.Run(tt.ret.String(), func(t *testing.T) {
			m := &gen.Method{ReturnType: tt.ret, Default: field.DefaultValue(tt.ret)}
			assert.Equal(t, tt.want, Literal(m))
		})
	}
}

func TestSourceDir(t *testing.T) {
	assert.Equal(t, "src/main/java/com/example/genapp", SourceDir(gen.DefaultBasePackage))
	assert.Equal(t, "src/main/java/app", SourceDir("app"))
}
