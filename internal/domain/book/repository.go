package book

// Repository 图书仓储接口
// 设计说明:
// 1. 书架是单用户的内存集合,所有操作都是同步的内存赋值,没有I/O
// 2. 持久化不属于仓储职责,由应用层在变更后调用storage适配器完成
// 3. 查询返回副本,调用方修改返回值不会影响集合
type Repository interface {
	// Create 创建图书并追加到集合末尾
	// 输入不合法时静默拒绝:返回nil,false,不产生记录
	Create(title, author string, year int, isComplete bool) (*Book, bool)

	// FindByID 根据ID查找图书
	FindByID(id int64) (*Book, bool)

	// Delete 删除图书,返回是否真的删除了记录
	Delete(id int64) bool

	// ToggleComplete 切换阅读状态,返回是否找到记录
	ToggleComplete(id int64) bool

	// Update 更新书名、作者、年份
	// 任一输入不合法时记录保持不变并返回false
	Update(id int64, title, author string, year int) bool

	// All 按插入顺序返回全部图书
	All() []Book

	// Replace 整体替换集合(从存储加载时使用)
	Replace(books []Book)

	// SearchByTitle 按书名做大小写不敏感的子串匹配,空关键词返回全部
	SearchByTitle(query string) []Book

	// Len 图书数量
	Len() int
}
